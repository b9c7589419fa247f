package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/internal/repository"
	authservice "github.com/hemovault/bloodbank-api/internal/service/auth"
	jwtauth "github.com/hemovault/bloodbank-api/pkg/auth"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
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

type noopEmail struct{}

func (noopEmail) SendWelcome(to, name string) error                     { return nil }
func (noopEmail) SendRequestFulfilled(to, name, bloodType string) error { return nil }
func (noopEmail) SendAppointmentReminder(to, name, when string) error   { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *authservice.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := jwtauth.NewJWTService(jwtauth.Config{
		Secret:        "test-access",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	svc := authservice.NewService(newFakeUserRepo(), jwtSvc, noopEmail{})
	h := NewHandler(svc)

	engine := gin.New()
	engine.POST("/auth/refresh", h.RefreshToken)
	engine.POST("/auth/logout", h.Logout)
	return engine, svc
}

func registeredTokens(t *testing.T, svc *authservice.Service) *model.TokenResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Dana Donor",
		Email:    "dana@example.com",
		Password: "s3cret-password",
		Role:     model.RoleDonor,
	})
	require.NoError(t, err)
	return resp.Tokens
}

func postJSON(engine *gin.Engine, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := postJSON(engine, "/auth/refresh", model.RefreshTokenRequest{RefreshToken: "garbage"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	engine, svc := newTestRouter(t)
	tokens := registeredTokens(t, svc)

	w := postJSON(engine, "/auth/refresh", model.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
}

func TestLogoutRejectsInvalidToken(t *testing.T) {
	engine, _ := newTestRouter(t)

	header := http.Header{}
	header.Set("Authorization", "Bearer garbage")
	w := postJSON(engine, "/auth/logout", nil, header)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRequiresBearerToken(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := postJSON(engine, "/auth/logout", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
