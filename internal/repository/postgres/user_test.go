package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(NewBaseRepository(db))

	mock.ExpectExec(`(?s)INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &model.User{
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: "hash",
		Role:         model.RoleDonor,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(NewBaseRepository(db))

	mock.ExpectQuery(`(?s)SELECT.+FROM users\s+WHERE email = \$1`).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListFiltersByRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(NewBaseRepository(db))

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Dana", "dana@example.com", "hash", "DONOR", now, now)

	mock.ExpectQuery(`(?s)SELECT.+FROM users\s+WHERE role = \$1\s+ORDER BY created_at DESC`).
		WithArgs(model.RoleDonor).
		WillReturnRows(rows)

	users, err := repo.List(context.Background(), &model.UserFilter{Role: model.RoleDonor})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.RoleDonor, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCountByRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(NewBaseRepository(db))

	rows := sqlmock.NewRows([]string{"total", "admins", "donors", "recipients"}).
		AddRow(10, 2, 5, 3)

	mock.ExpectQuery(`(?s)SELECT\s+COUNT\(\*\) AS total`).WillReturnRows(rows)

	counts, err := repo.CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, counts.Total)
	assert.Equal(t, 2, counts.Admins)
	assert.Equal(t, 5, counts.Donors)
	assert.Equal(t, 3, counts.Recipients)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(NewBaseRepository(db))

	mock.ExpectExec(`(?s)UPDATE users SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.User{Base: model.Base{ID: uuid.New()}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
