package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/domains/staff"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/response"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Login(ctx context.Context, req staff.LoginRequest) (*staff.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.TokenResponse), args.Error(1)
}

func (m *mockService) Refresh(ctx context.Context, token string) (*staff.TokenResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.TokenResponse), args.Error(1)
}

func (m *mockService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockService) GetProfile(ctx context.Context, id uuid.UUID) (*staff.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Profile), args.Error(1)
}

func (m *mockService) ListStaff(ctx context.Context, req staff.ListStaffRequest) ([]staff.Profile, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]staff.Profile), args.Int(1), args.Error(2)
}

func (m *mockService) CreateStaff(ctx context.Context, req staff.CreateStaffRequest) (*staff.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Profile), args.Error(1)
}

func (m *mockService) UpdateStaff(ctx context.Context, actor, id uuid.UUID, req staff.UpdateStaffRequest) (*staff.Profile, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Profile), args.Error(1)
}

func (m *mockService) SetPassword(ctx context.Context, id uuid.UUID, req staff.SetPasswordRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func withStaff(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(shared.CtxStaffID, id)
		c.Set(shared.CtxRole, shared.RoleManager)
		c.Next()
	}
}

func TestMe_ReturnsProfile(t *testing.T) {
	svc := new(mockService)
	h := NewStaffHandler(svc, false)
	id := uuid.New()
	svc.On("GetProfile", mock.Anything, id).Return(&staff.Profile{ID: id, DisplayName: "Jess", Role: staff.RoleBudtender}, nil)

	r := gin.New()
	r.GET("/staff/me", withStaff(id), h.Me)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Success bool          `json:"success"`
		Data    staff.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "Jess", env.Data.DisplayName)
}

func TestMe_DeletedStaffIs404(t *testing.T) {
	svc := new(mockService)
	h := NewStaffHandler(svc, false)
	id := uuid.New()
	svc.On("GetProfile", mock.Anything, id).Return(nil, staff.ErrStaffNotFound)

	r := gin.New()
	r.GET("/staff/me", withStaff(id), h.Me)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/staff/me", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var env response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "STAFF_NOT_FOUND", env.Error.Code)
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	svc := new(mockService)
	h := NewStaffHandler(svc, false)
	req := staff.LoginRequest{Email: "jess@guidelight.test", Password: "Sativa123"}
	svc.On("Login", mock.Anything, req).Return(&staff.TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)

	body, _ := json.Marshal(req)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "refresh_token=r")
}

func TestLogin_InvalidCredentialsIs401(t *testing.T) {
	svc := new(mockService)
	h := NewStaffHandler(svc, false)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, staff.ErrInvalidCredentials)

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewReader([]byte(`{"email":"x@y.z","password":"nope"}`))))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
