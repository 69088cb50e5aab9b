package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kuitang/notes-service/internal/errs"
)

// MemoryStore keeps notes in a process-local map guarded by a mutex.
// List order is insertion order, stable for the process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]Note
	order []string

	// Overridable for tests.
	now   func() time.Time
	newID func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store. Seed notes keep their
// existing ids and dates; duplicates by id are dropped.
func NewMemoryStore(seed ...Note) *MemoryStore {
	s := &MemoryStore{
		notes: make(map[string]Note, len(seed)),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, n := range seed {
		if n.ID == "" {
			continue
		}
		if _, ok := s.notes[n.ID]; ok {
			continue
		}
		if n.Category == "" {
			n.Category = DefaultCategory
		}
		s.notes[n.ID] = n
		s.order = append(s.order, n.ID)
	}
	return s
}

// List returns all notes in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Note, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.notes[id])
	}
	return out, nil
}

// Get looks a note up by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "Note not found")
	}
	return &note, nil
}

// Create validates input, assigns id and timestamp, and stores the note.
func (s *MemoryStore) Create(ctx context.Context, params CreateNoteParams) (*Note, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	note := Note{
		ID:       s.newID(),
		Content:  params.Content,
		Category: params.Category,
		Date:     s.now().UTC(),
	}
	if params.Important != nil {
		note.Important = *params.Important
	}
	if note.Category == "" {
		note.Category = DefaultCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.ID] = note
	s.order = append(s.order, note.ID)

	return &note, nil
}

// Update applies a partial patch to an existing note.
func (s *MemoryStore) Update(ctx context.Context, id string, patch UpdateNoteParams) (*Note, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notes[id]
	if !ok {
		return nil, errs.New(errs.NotFound, "Note not found")
	}

	updated := patch.apply(existing)
	s.notes[id] = updated
	return &updated, nil
}

// Delete removes a note. Absent ids report not_found so both backends
// share one delete semantic.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return errs.New(errs.NotFound, "Note not found")
	}
	delete(s.notes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
