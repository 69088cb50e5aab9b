package notes

import "context"

// Store is the persistence contract for notes. Implementations own id and
// timestamp assignment; callers never supply either.
//
// Error contract, via internal/errs codes:
//   - invalid_argument: input fails a business rule (missing/short content,
//     malformed id on the durable backend)
//   - not_found: no note with the given id (including ids that are not
//     syntactically valid for lookup)
//   - unavailable: the durable backend cannot be reached
//
// Updates are last-write-wins; there is no optimistic concurrency check.
type Store interface {
	// List returns all notes. The in-memory backend returns insertion
	// order; the durable backend's order is backend-defined.
	List(ctx context.Context) ([]Note, error)

	// Get looks a note up by id.
	Get(ctx context.Context, id string) (*Note, error)

	// Create validates input, assigns a fresh id and the current
	// timestamp, and makes the note visible to subsequent List/Get calls.
	Create(ctx context.Context, params CreateNoteParams) (*Note, error)

	// Update applies a partial patch to an existing note. Fields omitted
	// from the patch keep their prior value; id and date never change.
	// Returns not_found before any mutation when the id does not exist.
	Update(ctx context.Context, id string, patch UpdateNoteParams) (*Note, error)

	// Delete removes a note entirely. Deleting an absent id returns
	// not_found in both backends.
	Delete(ctx context.Context, id string) error
}
