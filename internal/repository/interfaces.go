package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hemovault/bloodbank-api/internal/model"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrInventoryUnavailable = errors.New("inventory row is not available")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.UserFilter) ([]*model.User, error)
	CountByRole(ctx context.Context) (*model.UserCounts, error)
}

type InventoryRepository interface {
	Create(ctx context.Context, inv *model.BloodInventory) error
	Get(ctx context.Context, id uuid.UUID) (*model.BloodInventory, error)
	Update(ctx context.Context, inv *model.BloodInventory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.InventoryFilter) ([]*model.BloodInventory, error)
	SumAvailableByType(ctx context.Context) ([]model.TypeQuantity, error)
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type DonationRepository interface {
	Create(ctx context.Context, donation *model.Donation) error
	// CreateWithInventory inserts the donation and its cascaded inventory
	// row in a single transaction, linking the two.
	CreateWithInventory(ctx context.Context, donation *model.Donation, inv *model.BloodInventory) error
	Get(ctx context.Context, id uuid.UUID) (*model.Donation, error)
	Update(ctx context.Context, donation *model.Donation) error
	// CompleteWithInventory updates the donation and inserts the cascaded
	// inventory row in a single transaction.
	CompleteWithInventory(ctx context.Context, donation *model.Donation, inv *model.BloodInventory) error
	// Delete removes the donation and any linked inventory row.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.DonationFilter) ([]*model.Donation, error)
	CountByStatus(ctx context.Context) (*model.StatusCounts, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error)
	CountByStatus(ctx context.Context) (*model.StatusCounts, error)
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
}

type BloodRequestRepository interface {
	Create(ctx context.Context, req *model.BloodRequest) error
	Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error)
	Update(ctx context.Context, req *model.BloodRequest) error
	// Fulfill updates the request and flips the referenced inventory row to
	// USED in a single transaction. Returns ErrInventoryUnavailable when the
	// row is not AVAILABLE.
	Fulfill(ctx context.Context, req *model.BloodRequest, inventoryID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.BloodRequestFilter) ([]*model.BloodRequest, error)
	CountByStatus(ctx context.Context) (*model.StatusCounts, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
