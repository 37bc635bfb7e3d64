package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"imageconv/internal/model"
	"imageconv/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// Create inserts a new user row and returns it with the generated id.
func (r *UserPostgres) Create(ctx context.Context) (*model.User, error) {
	const q = `
		INSERT INTO users (user_id)
		VALUES ($1)
		RETURNING user_id
	`
	var out model.User
	if err := r.db.QueryRowContext(ctx, q, uuid.NewString()).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a user by id. A token that is not even a uuid cannot match a
// row, so it is normalized to sql.ErrNoRows without touching the database.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	const q = `
		SELECT user_id
		FROM users
		WHERE user_id = $1
	`
	var out model.User
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}
