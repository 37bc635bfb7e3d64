package repository

import (
	"context"

	"imageconv/internal/model"
)

// ImageRepository defines data access for image records using SQL queries only.
// No business logic here — strictly persistence operations.
//
// Implementations must normalize lookup failures: a malformed id and an absent
// row both surface as sql.ErrNoRows, never as a raw driver error class.
type ImageRepository interface {
	// Create inserts a new image row with a freshly generated id and returns
	// the stored record. The id is visible to the caller immediately — the
	// upload flow needs it before the transform has run.
	Create(ctx context.Context) (*model.Image, error)

	// FindByID returns an image record by its id.
	FindByID(ctx context.Context, id string) (*model.Image, error)

	// Delete removes an image row by id. Deleting an already-deleted record is
	// not an error; this is the compensation path and must stay idempotent.
	Delete(ctx context.Context, id string) error

	// ListIDs returns every image id. Used by the orphan-record sweep.
	ListIDs(ctx context.Context) ([]string, error)
}
