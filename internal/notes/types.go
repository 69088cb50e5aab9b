// Package notes owns the note model, input validation, and the storage
// backends (in-memory and SurrealDB document store).
package notes

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kuitang/notes-service/internal/errs"
)

const (
	// MinContentLength is the minimum length of note content, enforced on
	// create and on any update that supplies content.
	MinContentLength = 5

	// DefaultCategory is assigned when a note is created without one.
	DefaultCategory = "Uncategorized"
)

var validate = validator.New()

// Note is the sole persisted resource. ID and Date are assigned by the
// store at creation and never change afterwards.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Important bool      `json:"important"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
}

// CreateNoteParams contains caller-supplied fields for creating a note.
// ID and Date are never accepted from the caller.
type CreateNoteParams struct {
	Content   string `json:"content" validate:"required,min=5"`
	Important *bool  `json:"important"`
	Category  string `json:"category"`
}

// Validate checks the create input against the business rules and returns
// a typed invalid_argument error with a client-safe message on failure.
func (p CreateNoteParams) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() != "Content" {
				continue
			}
			switch fe.Tag() {
			case "required":
				return errs.New(errs.InvalidArgument, "content missing")
			case "min":
				return errs.Newf(errs.InvalidArgument, "content must be at least %d characters", MinContentLength)
			}
		}
	}
	return errs.Wrap(errs.InvalidArgument, "invalid note input", err)
}

// UpdateNoteParams is a partial patch. Pointer fields distinguish an
// omitted field (nil, keep prior value) from an explicit zero value.
type UpdateNoteParams struct {
	Content   *string `json:"content" validate:"omitempty,min=5"`
	Important *bool   `json:"important"`
	Category  *string `json:"category"`
}

// Validate checks a supplied content value against the minimum-length rule.
// Omitted fields are always valid.
func (p UpdateNoteParams) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "Content" && fe.Tag() == "min" {
				return errs.Newf(errs.InvalidArgument, "content must be at least %d characters", MinContentLength)
			}
		}
	}
	return errs.Wrap(errs.InvalidArgument, "invalid note patch", err)
}

// IsEmpty reports whether the patch changes nothing.
func (p UpdateNoteParams) IsEmpty() bool {
	return p.Content == nil && p.Important == nil && p.Category == nil
}

// apply returns a copy of base with the patch applied. ID and Date are
// carried over untouched.
func (p UpdateNoteParams) apply(base Note) Note {
	updated := base
	if p.Content != nil {
		updated.Content = *p.Content
	}
	if p.Important != nil {
		updated.Important = *p.Important
	}
	if p.Category != nil {
		updated.Category = *p.Category
	}
	return updated
}
