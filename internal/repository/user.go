package repository

import (
	"context"

	"imageconv/internal/model"
)

// UserRepository defines data access for user records. A user row is a bearer
// token: FindByID is the whole authorization check.
type UserRepository interface {
	// Create inserts a new user row with a generated id (a fresh token).
	Create(ctx context.Context) (*model.User, error)

	// FindByID returns a user by id; sql.ErrNoRows means the token is unknown.
	FindByID(ctx context.Context, id string) (*model.User, error)
}
