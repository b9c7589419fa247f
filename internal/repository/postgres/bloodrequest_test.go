package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
)

func pendingRequest() *model.BloodRequest {
	return &model.BloodRequest{
		Base:        model.Base{ID: uuid.New()},
		RequesterID: uuid.New(),
		BloodType:   model.BloodTypeBPos,
		Quantity:    1,
		Urgency:     model.UrgencyNormal,
		Status:      model.RequestStatusPending,
		RequestDate: time.Now(),
	}
}

func TestFulfillMarksInventoryUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBloodRequestRepository(NewBaseRepository(db))

	req := pendingRequest()
	invID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM blood_inventory WHERE id = \$1 FOR UPDATE`).
		WithArgs(invID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("AVAILABLE"))
	mock.ExpectExec(`UPDATE blood_inventory SET status = 'USED'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)UPDATE blood_requests SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Fulfill(context.Background(), req, invID)
	require.NoError(t, err)

	assert.Equal(t, model.RequestStatusFulfilled, req.Status)
	require.NotNil(t, req.BloodInventoryID)
	assert.Equal(t, invID, *req.BloodInventoryID)
	assert.NotNil(t, req.FulfilledDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillRejectsNonAvailableInventory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBloodRequestRepository(NewBaseRepository(db))

	req := pendingRequest()
	invID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM blood_inventory WHERE id = \$1 FOR UPDATE`).
		WithArgs(invID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("RESERVED"))
	mock.ExpectRollback()

	err := repo.Fulfill(context.Background(), req, invID)
	assert.ErrorIs(t, err, repository.ErrInventoryUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFulfillMissingInventory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBloodRequestRepository(NewBaseRepository(db))

	req := pendingRequest()
	invID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM blood_inventory WHERE id = \$1 FOR UPDATE`).
		WithArgs(invID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	err := repo.Fulfill(context.Background(), req, invID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloodRequestUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBloodRequestRepository(NewBaseRepository(db))

	mock.ExpectExec(`(?s)UPDATE blood_requests SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), pendingRequest())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
