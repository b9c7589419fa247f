package appointment

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

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	if _, ok := r.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if filter.UserID != uuid.Nil && apt.UserID != filter.UserID {
			continue
		}
		out = append(out, apt)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	counts := &model.StatusCounts{ByStatus: make(map[string]int)}
	for _, apt := range r.appointments {
		counts.Total++
		counts.ByStatus[string(apt.Status)]++
	}
	return counts, nil
}

func (r *fakeAppointmentRepo) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	n := 0
	for _, apt := range r.appointments {
		if !apt.AppointmentDate.Before(start) && apt.AppointmentDate.Before(end) {
			n++
		}
	}
	return n, nil
}

func TestCreateRejectsRecipientsAndPastDates(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo())
	donor := model.Actor{ID: uuid.New(), Role: model.RoleDonor}

	_, err := svc.Create(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleRecipient},
		&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(time.Hour)})
	assert.Equal(t, 403, apperrors.Status(err))

	_, err = svc.Create(context.Background(), donor,
		&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(-time.Hour)})
	assert.Equal(t, 400, apperrors.Status(err))

	apt, err := svc.Create(context.Background(), donor,
		&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, donor.ID, apt.UserID)
}

func TestCompleteIsAdminOnly(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo())
	donor := model.Actor{ID: uuid.New(), Role: model.RoleDonor}

	apt, err := svc.Create(context.Background(), donor,
		&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	completed := model.AppointmentStatusCompleted
	_, err = svc.Update(context.Background(), donor, apt.ID,
		&model.UpdateAppointmentRequest{Status: &completed})
	assert.Equal(t, 403, apperrors.Status(err))

	updated, err := svc.Update(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, apt.ID,
		&model.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
}

func TestRescheduleMustBeFuture(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo())
	donor := model.Actor{ID: uuid.New(), Role: model.RoleDonor}

	apt, err := svc.Create(context.Background(), donor,
		&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = svc.Update(context.Background(), donor, apt.ID,
		&model.UpdateAppointmentRequest{AppointmentDate: &past})
	assert.Equal(t, 400, apperrors.Status(err))

	future := time.Now().Add(48 * time.Hour)
	updated, err := svc.Update(context.Background(), donor, apt.ID,
		&model.UpdateAppointmentRequest{AppointmentDate: &future})
	require.NoError(t, err)
	assert.Equal(t, future, updated.AppointmentDate)
}

func TestOwnershipOnGetAndDelete(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo())
	donor := model.Actor{ID: uuid.New(), Role: model.RoleDonor}
	stranger := model.Actor{ID: uuid.New(), Role: model.RoleDonor}

	apt, err := svc.Create(context.Background(), donor,
		&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, apt.ID)
	assert.Equal(t, 403, apperrors.Status(err))

	_, err = svc.Delete(context.Background(), stranger, apt.ID)
	assert.Equal(t, 403, apperrors.Status(err))

	deleted, err := svc.Delete(context.Background(), donor, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, deleted.ID)
}

func TestListScopesToOwnerUnlessAdmin(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo())
	donor := model.Actor{ID: uuid.New(), Role: model.RoleDonor}
	other := model.Actor{ID: uuid.New(), Role: model.RoleDonor}

	for _, a := range []model.Actor{donor, other} {
		_, err := svc.Create(context.Background(), a,
			&model.CreateAppointmentRequest{AppointmentDate: time.Now().Add(time.Hour)})
		require.NoError(t, err)
	}

	own, err := svc.List(context.Background(), donor, nil)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, donor.ID, own[0].UserID)

	all, err := svc.List(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
