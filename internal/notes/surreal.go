package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/kuitang/notes-service/internal/errs"
	"github.com/kuitang/notes-service/internal/obs"
)

// notesTable is the SurrealDB table holding note documents.
const notesTable = "notes"

// SurrealClient is the subset of the SurrealDB connection the store uses.
// Data parameters are any to match the driver's signatures.
type SurrealClient interface {
	Select(what string) (any, error)
	Create(thing string, data any) (any, error)
	Change(what string, data any) (any, error)
	Delete(what string) (any, error)
}

var _ SurrealClient = (*surrealdb.DB)(nil)

// SurrealStore persists notes in a SurrealDB table, one document per note.
// Each operation is a single round-trip; there is no cross-request
// transaction and concurrent updates are last-write-wins.
type SurrealStore struct {
	db SurrealClient

	now   func() time.Time
	newID func() string
}

var _ Store = (*SurrealStore)(nil)

// NewSurrealStore wraps an established SurrealDB connection. The caller is
// responsible for Signin/Use before handing the connection over.
func NewSurrealStore(db SurrealClient) *SurrealStore {
	return &SurrealStore{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// surrealNote is the document shape stored in SurrealDB. The id field
// round-trips as "notes:<uuid>"; public Notes carry the bare uuid.
type surrealNote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
}

func (r surrealNote) toNote() Note {
	return Note{
		ID:        publicID(r.ID),
		Content:   r.Content,
		Important: r.Important,
		Category:  r.Category,
		Date:      r.Date.UTC(),
	}
}

// List returns every note in the table; order is backend-defined.
func (s *SurrealStore) List(ctx context.Context) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}

	data, err := s.db.Select(notesTable)
	if err != nil {
		// A nil result for the whole table means no rows, not a miss.
		if errors.Is(err, surrealdb.ErrNoRow) {
			return []Note{}, nil
		}
		return nil, errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}

	records := make([]surrealNote, 0)
	if err := surrealdb.Unmarshal(data, &records); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "note storage returned an unreadable response", err)
	}

	out := make([]Note, 0, len(records))
	for _, r := range records {
		out = append(out, r.toNote())
	}
	return out, nil
}

// Get looks a note up by id. Syntactically invalid ids are reported as
// not_found rather than surfaced as a backend fault.
func (s *SurrealStore) Get(ctx context.Context, id string) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}
	if err := validateID(id); err != nil {
		return nil, errs.New(errs.NotFound, "Note not found")
	}

	data, err := s.db.Select(recordThing(id))
	if err != nil {
		return nil, translateSurrealErr(err)
	}

	var record surrealNote
	if err := surrealdb.Unmarshal(data, &record); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "note storage returned an unreadable response", err)
	}

	note := record.toNote()
	return &note, nil
}

// Create validates input, assigns a fresh record id and timestamp, and
// writes the document.
func (s *SurrealStore) Create(ctx context.Context, params CreateNoteParams) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}
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

	_, err := s.db.Create(recordThing(note.ID), map[string]any{
		"content":   note.Content,
		"important": note.Important,
		"category":  note.Category,
		"date":      note.Date,
	})
	if err != nil {
		return nil, translateSurrealErr(err)
	}

	obs.From(ctx).Debug("note_created", "id", note.ID)
	return &note, nil
}

// Update reads the existing document first so an absent id short-circuits
// with not_found, then merges only the patched fields. An empty patch
// skips the write entirely. The merge write never touches id or date.
func (s *SurrealStore) Update(ctx context.Context, id string, patch UpdateNoteParams) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	updated := patch.apply(*existing)
	_, err = s.db.Change(recordThing(id), map[string]any{
		"content":   updated.Content,
		"important": updated.Important,
		"category":  updated.Category,
	})
	if err != nil {
		return nil, translateSurrealErr(err)
	}

	return &updated, nil
}

// Delete removes the document. The client's delete call reports ErrNoRow
// for its nil result whether or not the record existed, so existence is
// checked first to keep the not_found contract.
func (s *SurrealStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}
	if err := validateID(id); err != nil {
		return err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if _, err := s.db.Delete(recordThing(id)); err != nil && !errors.Is(err, surrealdb.ErrNoRow) {
		return errs.Wrap(errs.Unavailable, "note storage unavailable", err)
	}

	obs.From(ctx).Debug("note_deleted", "id", id)
	return nil
}

// recordThing builds the backend record id for a public note id.
func recordThing(id string) string {
	return notesTable + ":" + id
}

// publicID strips the table prefix from a backend record id.
func publicID(thing string) string {
	return strings.TrimPrefix(thing, notesTable+":")
}

// validateID rejects ids the backend cannot express as a record id. The
// backend-level cast failure this prevents must never reach a client as an
// internal fault.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, ": \t\n") {
		return errs.New(errs.InvalidArgument, "malformed id")
	}
	return nil
}

// translateSurrealErr converts client errors into the store's typed
// taxonomy. The client reports a record-level miss as ErrNoRow.
func translateSurrealErr(err error) error {
	if errors.Is(err, surrealdb.ErrNoRow) {
		return errs.New(errs.NotFound, "Note not found")
	}
	return errs.Wrap(errs.Unavailable, "note storage unavailable", err)
}
