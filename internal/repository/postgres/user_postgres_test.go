package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	id := uuid.NewString()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(id))

	user, err := repo.Create(ctx)

	assert.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("known token", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("SELECT user_id FROM users WHERE user_id = ?").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(id))

		user, err := repo.FindByID(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, id, user.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		id := uuid.NewString()
		mock.ExpectQuery("SELECT user_id FROM users WHERE user_id = ?").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.FindByID(ctx, id)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
	})

	t.Run("token that is not a uuid", func(t *testing.T) {
		user, err := repo.FindByID(ctx, "bogus-token")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
