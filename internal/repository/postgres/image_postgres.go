package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"imageconv/internal/model"
	"imageconv/internal/repository"
)

// ImagePostgres is a PostgreSQL implementation of repository.ImageRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ImagePostgres struct {
	db *sql.DB
}

// NewImagePostgres creates a new ImagePostgres repository.
func NewImagePostgres(db *sql.DB) *ImagePostgres {
	return &ImagePostgres{db: db}
}

var _ repository.ImageRepository = (*ImagePostgres)(nil)

// Create inserts a placeholder row and returns it with the generated id.
func (r *ImagePostgres) Create(ctx context.Context) (*model.Image, error) {
	const q = `
		INSERT INTO images (image_id)
		VALUES ($1)
		RETURNING image_id
	`
	var out model.Image
	if err := r.db.QueryRowContext(ctx, q, uuid.NewString()).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single image record by id. A malformed id cannot match any
// row, so it is reported the same way as a missing one instead of being pushed
// into the database and coming back as a uuid cast error.
func (r *ImagePostgres) FindByID(ctx context.Context, id string) (*model.Image, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	const q = `
		SELECT image_id
		FROM images
		WHERE image_id = $1
	`
	var out model.Image
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an image row by id. It does not return an error if the row
// does not exist.
func (r *ImagePostgres) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	const q = `DELETE FROM images WHERE image_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// ListIDs returns every image id in the table.
func (r *ImagePostgres) ListIDs(ctx context.Context) ([]string, error) {
	const q = `SELECT image_id FROM images`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
