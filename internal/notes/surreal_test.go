package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/kuitang/notes-service/internal/errs"
)

// fakeSurrealClient emulates the subset of client behavior the store relies
// on: record-level misses surface as ErrNoRow, and Delete's nil result
// surfaces as ErrNoRow whether or not the record existed.
type fakeSurrealClient struct {
	mu          sync.Mutex
	records     map[string]map[string]any
	changeCalls int
	err         error
}

func newFakeSurrealClient() *fakeSurrealClient {
	return &fakeSurrealClient{records: make(map[string]map[string]any)}
}

func (f *fakeSurrealClient) Select(what string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if what == notesTable {
		if len(f.records) == 0 {
			return nil, surrealdb.ErrNoRow
		}
		out := make([]interface{}, 0, len(f.records))
		for _, rec := range f.records {
			out = append(out, rec)
		}
		return out, nil
	}
	rec, ok := f.records[what]
	if !ok {
		return nil, surrealdb.ErrNoRow
	}
	return rec, nil
}

func (f *fakeSurrealClient) Create(thing string, data any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec := map[string]any{"id": thing}
	for k, v := range data.(map[string]any) {
		rec[k] = v
	}
	f.records[thing] = rec
	return rec, nil
}

func (f *fakeSurrealClient) Change(what string, data any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changeCalls++
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[what]
	if !ok {
		rec = map[string]any{"id": what}
		f.records[what] = rec
	}
	for k, v := range data.(map[string]any) {
		rec[k] = v
	}
	return rec, nil
}

func (f *fakeSurrealClient) Delete(what string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.records, what)
	return nil, surrealdb.ErrNoRow
}

func newTestSurrealStore(client SurrealClient) *SurrealStore {
	s := NewSurrealStore(client)
	s.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSurrealStore_CreateRoundtrip(t *testing.T) {
	client := newFakeSurrealClient()
	s := newTestSurrealStore(client)
	ctx := context.Background()

	note, err := s.Create(ctx, CreateNoteParams{Content: "Buy milk"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if note.ID == "" {
		t.Fatal("id should be assigned")
	}
	if note.Category != DefaultCategory {
		t.Errorf("category = %q, want %q", note.Category, DefaultCategory)
	}
	if note.Important {
		t.Error("important should default to false")
	}

	got, err := s.Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != note.ID {
		t.Errorf("Get id = %q, want bare id %q without table prefix", got.ID, note.ID)
	}
	if got.Content != note.Content || got.Category != note.Category {
		t.Errorf("Get returned %+v, want %+v", got, note)
	}
	if !got.Date.Equal(note.Date) {
		t.Errorf("Get date = %v, want %v", got.Date, note.Date)
	}
}

func TestSurrealStore_GetMissing(t *testing.T) {
	s := newTestSurrealStore(newFakeSurrealClient())
	_, err := s.Get(context.Background(), "0f6a2c1e")
	if !errs.IsCode(err, errs.NotFound) {
		t.Fatalf("Get(missing) = %v, want not_found", err)
	}
}

func TestSurrealStore_GetMalformedID(t *testing.T) {
	s := newTestSurrealStore(newFakeSurrealClient())
	for _, id := range []string{"", "a:b", "has space", "tab\tid"} {
		_, err := s.Get(context.Background(), id)
		if !errs.IsCode(err, errs.NotFound) {
			t.Errorf("Get(%q) = %v, want not_found", id, err)
		}
	}
}

func TestSurrealStore_MutationsRejectMalformedID(t *testing.T) {
	s := newTestSurrealStore(newFakeSurrealClient())
	ctx := context.Background()
	content := "replacement content"

	if _, err := s.Update(ctx, "bad id", UpdateNoteParams{Content: &content}); !errs.IsCode(err, errs.InvalidArgument) {
		t.Errorf("Update(malformed) = %v, want invalid_argument", err)
	}
	if err := s.Delete(ctx, "bad:id"); !errs.IsCode(err, errs.InvalidArgument) {
		t.Errorf("Delete(malformed) = %v, want invalid_argument", err)
	}
}

func TestSurrealStore_UpdateMergesFields(t *testing.T) {
	client := newFakeSurrealClient()
	s := newTestSurrealStore(client)
	ctx := context.Background()

	created, err := s.Create(ctx, CreateNoteParams{Content: "Original text", Category: "Work"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	important := true
	updated, err := s.Update(ctx, created.ID, UpdateNoteParams{Important: &important})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.Important {
		t.Error("important not updated")
	}
	if updated.Content != created.Content || updated.Category != created.Category {
		t.Error("omitted fields must be preserved")
	}
	if !updated.Date.Equal(created.Date) {
		t.Error("date must never change on update")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Important {
		t.Error("update not persisted")
	}
}

func TestSurrealStore_UpdateEmptyPatchSkipsWrite(t *testing.T) {
	client := newFakeSurrealClient()
	s := newTestSurrealStore(client)
	ctx := context.Background()

	created, err := s.Create(ctx, CreateNoteParams{Content: "Untouched content"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Update(ctx, created.ID, UpdateNoteParams{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if *got != *created {
		t.Errorf("empty patch returned %+v, want %+v", got, created)
	}
	if client.changeCalls != 0 {
		t.Errorf("empty patch issued %d writes, want 0", client.changeCalls)
	}

	if _, err := s.Update(ctx, "absent", UpdateNoteParams{}); !errs.IsCode(err, errs.NotFound) {
		t.Errorf("empty patch on missing id = %v, want not_found", err)
	}
}

func TestSurrealStore_UpdateMissing(t *testing.T) {
	s := newTestSurrealStore(newFakeSurrealClient())
	content := "long enough content"
	_, err := s.Update(context.Background(), "absent", UpdateNoteParams{Content: &content})
	if !errs.IsCode(err, errs.NotFound) {
		t.Fatalf("Update(missing) = %v, want not_found", err)
	}
}

func TestSurrealStore_DeleteChecksExistence(t *testing.T) {
	client := newFakeSurrealClient()
	s := newTestSurrealStore(client)
	ctx := context.Background()

	if err := s.Delete(ctx, "absent"); !errs.IsCode(err, errs.NotFound) {
		t.Fatalf("Delete(missing) = %v, want not_found", err)
	}

	created, err := s.Create(ctx, CreateNoteParams{Content: "Throwaway note"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errs.IsCode(err, errs.NotFound) {
		t.Fatalf("Get after delete = %v, want not_found", err)
	}
}

func TestSurrealStore_ListEmptyTable(t *testing.T) {
	s := newTestSurrealStore(newFakeSurrealClient())
	all, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List returned %d notes, want 0", len(all))
	}
}

func TestSurrealStore_List(t *testing.T) {
	client := newFakeSurrealClient()
	s := newTestSurrealStore(client)
	ctx := context.Background()

	for _, content := range []string{"first note", "second note", "third note"} {
		if _, err := s.Create(ctx, CreateNoteParams{Content: content}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List returned %d notes, want 3", len(all))
	}
	for _, n := range all {
		if n.ID == "" || n.ID != publicID(n.ID) {
			t.Errorf("List returned unclean id %q", n.ID)
		}
	}
}

func TestSurrealStore_BackendFailureIsUnavailable(t *testing.T) {
	client := newFakeSurrealClient()
	client.err = errors.New("connection reset by peer")
	s := newTestSurrealStore(client)
	ctx := context.Background()

	if _, err := s.List(ctx); !errs.IsCode(err, errs.Unavailable) {
		t.Errorf("List = %v, want unavailable", err)
	}
	if _, err := s.Get(ctx, "someid"); !errs.IsCode(err, errs.Unavailable) {
		t.Errorf("Get = %v, want unavailable", err)
	}
	if _, err := s.Create(ctx, CreateNoteParams{Content: "Buy milk"}); !errs.IsCode(err, errs.Unavailable) {
		t.Errorf("Create = %v, want unavailable", err)
	}
}

func TestSurrealStore_CanceledContext(t *testing.T) {
	s := newTestSurrealStore(newFakeSurrealClient())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.List(ctx); !errs.IsCode(err, errs.Unavailable) {
		t.Errorf("List(canceled) = %v, want unavailable", err)
	}
}

func TestRecordThing(t *testing.T) {
	if got := recordThing("abc"); got != "notes:abc" {
		t.Errorf("recordThing = %q", got)
	}
	if got := publicID("notes:abc"); got != "abc" {
		t.Errorf("publicID = %q", got)
	}
	if got := publicID("abc"); got != "abc" {
		t.Errorf("publicID without prefix = %q", got)
	}
}

func TestTranslateSurrealErr(t *testing.T) {
	if err := translateSurrealErr(surrealdb.ErrNoRow); !errs.IsCode(err, errs.NotFound) {
		t.Errorf("ErrNoRow = %v, want not_found", err)
	}
	if err := translateSurrealErr(fmt.Errorf("query: %w", surrealdb.ErrNoRow)); !errs.IsCode(err, errs.NotFound) {
		t.Errorf("wrapped ErrNoRow = %v, want not_found", err)
	}
	if err := translateSurrealErr(errors.New("boom")); !errs.IsCode(err, errs.Unavailable) {
		t.Errorf("generic error = %v, want unavailable", err)
	}
}
