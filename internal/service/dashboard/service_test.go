package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type stubUserRepo struct{ counts model.UserCounts }

func (r *stubUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (r *stubUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (r *stubUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error  { return nil }
func (r *stubUserRepo) List(ctx context.Context, filter *model.UserFilter) ([]*model.User, error) {
	return nil, nil
}
func (r *stubUserRepo) CountByRole(ctx context.Context) (*model.UserCounts, error) {
	return &r.counts, nil
}

type stubInventoryRepo struct{ byType []model.TypeQuantity }

func (r *stubInventoryRepo) Create(ctx context.Context, inv *model.BloodInventory) error { return nil }
func (r *stubInventoryRepo) Get(ctx context.Context, id uuid.UUID) (*model.BloodInventory, error) {
	return nil, repository.ErrNotFound
}
func (r *stubInventoryRepo) Update(ctx context.Context, inv *model.BloodInventory) error { return nil }
func (r *stubInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }
func (r *stubInventoryRepo) List(ctx context.Context, filter *model.InventoryFilter) ([]*model.BloodInventory, error) {
	return nil, nil
}
func (r *stubInventoryRepo) SumAvailableByType(ctx context.Context) ([]model.TypeQuantity, error) {
	return r.byType, nil
}
func (r *stubInventoryRepo) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubDonationRepo struct{ counts model.StatusCounts }

func (r *stubDonationRepo) Create(ctx context.Context, d *model.Donation) error { return nil }
func (r *stubDonationRepo) CreateWithInventory(ctx context.Context, d *model.Donation, inv *model.BloodInventory) error {
	return nil
}
func (r *stubDonationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	return nil, repository.ErrNotFound
}
func (r *stubDonationRepo) Update(ctx context.Context, d *model.Donation) error { return nil }
func (r *stubDonationRepo) CompleteWithInventory(ctx context.Context, d *model.Donation, inv *model.BloodInventory) error {
	return nil
}
func (r *stubDonationRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *stubDonationRepo) List(ctx context.Context, filter *model.DonationFilter) ([]*model.Donation, error) {
	return nil, nil
}
func (r *stubDonationRepo) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	return &r.counts, nil
}

type stubAppointmentRepo struct {
	counts model.StatusCounts
	today  int
}

func (r *stubAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error { return nil }
func (r *stubAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (r *stubAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error { return nil }
func (r *stubAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (r *stubAppointmentRepo) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	return nil, nil
}
func (r *stubAppointmentRepo) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	return &r.counts, nil
}
func (r *stubAppointmentRepo) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	return r.today, nil
}

type stubRequestRepo struct{ counts model.StatusCounts }

func (r *stubRequestRepo) Create(ctx context.Context, req *model.BloodRequest) error { return nil }
func (r *stubRequestRepo) Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	return nil, repository.ErrNotFound
}
func (r *stubRequestRepo) Update(ctx context.Context, req *model.BloodRequest) error { return nil }
func (r *stubRequestRepo) Fulfill(ctx context.Context, req *model.BloodRequest, inventoryID uuid.UUID) error {
	return nil
}
func (r *stubRequestRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *stubRequestRepo) List(ctx context.Context, filter *model.BloodRequestFilter) ([]*model.BloodRequest, error) {
	return nil, nil
}
func (r *stubRequestRepo) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	return &r.counts, nil
}

func TestStatsRequiresAdmin(t *testing.T) {
	svc := NewService(&stubUserRepo{}, &stubInventoryRepo{}, &stubDonationRepo{}, &stubAppointmentRepo{}, &stubRequestRepo{})

	_, err := svc.Stats(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleDonor})
	assert.Equal(t, 403, apperrors.Status(err))
}

func TestStatsAggregates(t *testing.T) {
	users := model.UserCounts{Total: 10, Admins: 1, Donors: 6, Recipients: 3}
	byType := []model.TypeQuantity{
		{BloodType: model.BloodTypeAPos, Quantity: 4},
		{BloodType: model.BloodTypeONeg, Quantity: 2},
	}
	donations := model.StatusCounts{Total: 5, ByStatus: map[string]int{"SCHEDULED": 2, "COMPLETED": 3}}
	appointments := model.StatusCounts{Total: 4, ByStatus: map[string]int{"SCHEDULED": 4}}
	requests := model.StatusCounts{Total: 3, ByStatus: map[string]int{"PENDING": 2, "FULFILLED": 1}}

	svc := NewService(
		&stubUserRepo{counts: users},
		&stubInventoryRepo{byType: byType},
		&stubDonationRepo{counts: donations},
		&stubAppointmentRepo{counts: appointments, today: 2},
		&stubRequestRepo{counts: requests},
	)

	stats, err := svc.Stats(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, users, stats.Users)
	assert.Equal(t, byType, stats.AvailableByType)
	assert.Equal(t, donations, stats.Donations)
	assert.Equal(t, appointments, stats.Appointments)
	assert.Equal(t, requests, stats.Requests)
	assert.Equal(t, 2, stats.AppointmentsToday)

	// Each total matches the sum of its per-status counts.
	for _, counts := range []model.StatusCounts{stats.Donations, stats.Appointments, stats.Requests} {
		sum := 0
		for _, n := range counts.ByStatus {
			sum += n
		}
		assert.Equal(t, counts.Total, sum)
	}
	assert.Equal(t, stats.Users.Total, stats.Users.Admins+stats.Users.Donors+stats.Users.Recipients)
}
