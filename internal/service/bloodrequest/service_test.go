package bloodrequest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	apperrors "github.com/hemovault/bloodbank-api/pkg/errors"
)

type fakeRequestRepo struct {
	requests map[uuid.UUID]*model.BloodRequest

	fulfillCalls    int
	fulfillErr      error
	lastInventoryID uuid.UUID
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*model.BloodRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.BloodRequest) error {
	req.ID = uuid.New()
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req *model.BloodRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return repository.ErrNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) Fulfill(ctx context.Context, req *model.BloodRequest, inventoryID uuid.UUID) error {
	r.fulfillCalls++
	r.lastInventoryID = inventoryID
	if r.fulfillErr != nil {
		return r.fulfillErr
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.requests[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeRequestRepo) List(ctx context.Context, filter *model.BloodRequestFilter) ([]*model.BloodRequest, error) {
	var out []*model.BloodRequest
	for _, req := range r.requests {
		if filter.RequesterID != uuid.Nil && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequestRepo) CountByStatus(ctx context.Context) (*model.StatusCounts, error) {
	counts := &model.StatusCounts{ByStatus: make(map[string]int)}
	for _, req := range r.requests {
		counts.Total++
		counts.ByStatus[string(req.Status)]++
	}
	return counts, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, repository.ErrNotFound
}
func (r *fakeUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error  { return nil }
func (r *fakeUserRepo) List(ctx context.Context, filter *model.UserFilter) ([]*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) CountByRole(ctx context.Context) (*model.UserCounts, error) {
	return &model.UserCounts{}, nil
}

type recordingEmail struct {
	fulfilled []string
}

func (e *recordingEmail) SendWelcome(to, name string) error { return nil }
func (e *recordingEmail) SendRequestFulfilled(to, name, bloodType string) error {
	e.fulfilled = append(e.fulfilled, to)
	return nil
}
func (e *recordingEmail) SendAppointmentReminder(to, name, when string) error { return nil }

func recipientUser() *model.User {
	return &model.User{
		Base:  model.Base{ID: uuid.New()},
		Name:  "Riley Recipient",
		Email: "riley@example.com",
		Role:  model.RoleRecipient,
	}
}

func TestCreateForcesPendingAndDefaultUrgency(t *testing.T) {
	repo := newFakeRequestRepo()
	recipient := recipientUser()
	svc := NewService(repo, newFakeUserRepo(recipient), &recordingEmail{})

	req, err := svc.Create(context.Background(), model.Actor{ID: recipient.ID, Role: model.RoleRecipient},
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, model.RequestStatusPending, req.Status)
	assert.Equal(t, model.UrgencyNormal, req.Urgency)
	assert.Equal(t, recipient.ID, req.RequesterID)
	assert.False(t, req.RequestDate.IsZero())
}

func TestCreateRejectsDonors(t *testing.T) {
	svc := NewService(newFakeRequestRepo(), newFakeUserRepo(), &recordingEmail{})

	_, err := svc.Create(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleDonor},
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 1})
	assert.Equal(t, 403, apperrors.Status(err))
}

func TestFulfillRequiresInventoryID(t *testing.T) {
	repo := newFakeRequestRepo()
	recipient := recipientUser()
	svc := NewService(repo, newFakeUserRepo(recipient), &recordingEmail{})

	req, err := svc.Create(context.Background(), model.Actor{ID: recipient.ID, Role: model.RoleRecipient},
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 1})
	require.NoError(t, err)

	fulfilled := model.RequestStatusFulfilled
	_, err = svc.Update(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, req.ID,
		&model.UpdateBloodRequestRequest{Status: &fulfilled})
	assert.Equal(t, 400, apperrors.Status(err))
	assert.Equal(t, 0, repo.fulfillCalls)
}

func TestFulfillUsesInventoryAndNotifies(t *testing.T) {
	repo := newFakeRequestRepo()
	recipient := recipientUser()
	mail := &recordingEmail{}
	svc := NewService(repo, newFakeUserRepo(recipient), mail)

	req, err := svc.Create(context.Background(), model.Actor{ID: recipient.ID, Role: model.RoleRecipient},
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 1})
	require.NoError(t, err)

	invID := uuid.New()
	fulfilled := model.RequestStatusFulfilled
	updated, err := svc.Update(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, req.ID,
		&model.UpdateBloodRequestRequest{Status: &fulfilled, BloodInventoryID: &invID})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.fulfillCalls)
	assert.Equal(t, invID, repo.lastInventoryID)
	assert.Equal(t, model.RequestStatusFulfilled, updated.Status)
	assert.Equal(t, []string{recipient.Email}, mail.fulfilled)
}

func TestFulfillSurfacesUnavailableInventory(t *testing.T) {
	repo := newFakeRequestRepo()
	repo.fulfillErr = repository.ErrInventoryUnavailable
	recipient := recipientUser()
	svc := NewService(repo, newFakeUserRepo(recipient), &recordingEmail{})

	req, err := svc.Create(context.Background(), model.Actor{ID: recipient.ID, Role: model.RoleRecipient},
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 1})
	require.NoError(t, err)

	invID := uuid.New()
	fulfilled := model.RequestStatusFulfilled
	_, err = svc.Update(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, req.ID,
		&model.UpdateBloodRequestRequest{Status: &fulfilled, BloodInventoryID: &invID})
	assert.ErrorIs(t, err, repository.ErrInventoryUnavailable)
}

func TestRecipientLimitedToOwnPendingEdits(t *testing.T) {
	repo := newFakeRequestRepo()
	recipient := recipientUser()
	svc := NewService(repo, newFakeUserRepo(recipient), &recordingEmail{})
	recipientActor := model.Actor{ID: recipient.ID, Role: model.RoleRecipient}

	req, err := svc.Create(context.Background(), recipientActor,
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 1})
	require.NoError(t, err)

	// Another recipient cannot touch it.
	urgency := model.UrgencyCritical
	_, err = svc.Update(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleRecipient}, req.ID,
		&model.UpdateBloodRequestRequest{Urgency: &urgency})
	assert.Equal(t, 403, apperrors.Status(err))

	// Changing quantity is admin-only.
	qty := 5
	_, err = svc.Update(context.Background(), recipientActor, req.ID,
		&model.UpdateBloodRequestRequest{Quantity: &qty})
	assert.Equal(t, 403, apperrors.Status(err))

	// Raising urgency on their own pending request is fine.
	updated, err := svc.Update(context.Background(), recipientActor, req.ID,
		&model.UpdateBloodRequestRequest{Urgency: &urgency})
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyCritical, updated.Urgency)

	// Cancelling is allowed, after which no further edits go through.
	cancelled := model.RequestStatusCancelled
	_, err = svc.Update(context.Background(), recipientActor, req.ID,
		&model.UpdateBloodRequestRequest{Status: &cancelled})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), recipientActor, req.ID,
		&model.UpdateBloodRequestRequest{Urgency: &urgency})
	assert.Equal(t, 403, apperrors.Status(err))
}

func TestDeleteOwnershipRules(t *testing.T) {
	repo := newFakeRequestRepo()
	recipient := recipientUser()
	svc := NewService(repo, newFakeUserRepo(recipient), &recordingEmail{})
	recipientActor := model.Actor{ID: recipient.ID, Role: model.RoleRecipient}

	req, err := svc.Create(context.Background(), recipientActor,
		&model.CreateBloodRequestRequest{BloodType: model.BloodTypeBPos, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleRecipient}, req.ID)
	assert.Equal(t, 403, apperrors.Status(err))

	deleted, err := svc.Delete(context.Background(), recipientActor, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, deleted.ID)
}
