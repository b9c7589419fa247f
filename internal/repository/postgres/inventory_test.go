package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestInventoryGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(NewBaseRepository(db))

	id := uuid.New()
	mock.ExpectQuery(`(?s)SELECT .+ FROM blood_inventory`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(NewBaseRepository(db))

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM blood_inventory`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "blood_type", "quantity", "expiry_date", "status", "donation_id",
			"created_at", "updated_at",
		}).AddRow(id, "A+", 3, now.Add(model.ShelfLife), "AVAILABLE", nil, now, now))

	inv, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.BloodTypeAPos, inv.BloodType)
	assert.Equal(t, 3, inv.Quantity)
	assert.Equal(t, model.InventoryStatusAvailable, inv.Status)
	assert.Nil(t, inv.DonationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(NewBaseRepository(db))

	mock.ExpectExec(`(?s)UPDATE blood_inventory SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.BloodInventory{
		Base:      model.Base{ID: uuid.New()},
		BloodType: model.BloodTypeAPos,
		Quantity:  1,
		Status:    model.InventoryStatusAvailable,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryExpireBefore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(NewBaseRepository(db))

	mock.ExpectExec(`(?s)UPDATE blood_inventory\s+SET status = 'EXPIRED'`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.ExpireBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventorySumAvailableByType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(NewBaseRepository(db))

	mock.ExpectQuery(`SELECT blood_type, COALESCE\(SUM\(quantity\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"blood_type", "quantity"}).
			AddRow("A+", 5).
			AddRow("O-", 2))

	sums, err := repo.SumAvailableByType(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, model.BloodTypeAPos, sums[0].BloodType)
	assert.Equal(t, 5, sums[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInventoryRepository(NewBaseRepository(db))

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM blood_inventory\s+WHERE 1=1\s+AND blood_type = \$1 AND status = \$2 ORDER BY updated_at DESC`).
		WithArgs("O-", "AVAILABLE").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "blood_type", "quantity", "expiry_date", "status", "donation_id",
			"created_at", "updated_at",
		}).AddRow(uuid.New(), "O-", 1, now, "AVAILABLE", nil, now, now))

	rows, err := repo.List(context.Background(), &model.InventoryFilter{
		BloodType: model.BloodTypeONeg,
		Status:    model.InventoryStatusAvailable,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
