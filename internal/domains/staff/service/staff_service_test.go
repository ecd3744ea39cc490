package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"guidelight-backend/internal/domains/staff"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/pkg/cache"
	"guidelight-backend/pkg/jwt"
)

// --- Mock Repository ---

type mockStaffRepo struct {
	mock.Mock
}

func (m *mockStaffRepo) Create(ctx context.Context, s *staff.Staff) error {
	args := m.Called(ctx, s)
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id uuid.UUID) (*staff.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

func (m *mockStaffRepo) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.Staff), args.Error(1)
}

func (m *mockStaffRepo) List(ctx context.Context, req staff.ListStaffRequest) ([]staff.Staff, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]staff.Staff), args.Int(1), args.Error(2)
}

func (m *mockStaffRepo) Update(ctx context.Context, s *staff.Staff) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockStaffRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockStaffRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// --- helpers ---

func newTestService(repo *mockStaffRepo) (staff.Service, *jwt.Manager, *cache.Memory) {
	tokens := jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	c := cache.NewMemory()
	return NewStaffServiceWithCost(repo, tokens, c, bcrypt.MinCost), tokens, c
}

func budtender(t *testing.T, password string) *staff.Staff {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &staff.Staff{
		ID:           uuid.New(),
		Email:        "jess@guidelight.test",
		PasswordHash: string(hash),
		DisplayName:  "Jess",
		Role:         staff.RoleBudtender,
		IsActive:     true,
	}
}

// --- tests ---

func TestLogin_Success(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, tokens, _ := newTestService(repo)
	st := budtender(t, "Sativa123")

	repo.On("FindByEmail", mock.Anything, "jess@guidelight.test").Return(st, nil)
	repo.On("UpdateLastLogin", mock.Anything, st.ID).Return(nil)

	res, err := svc.Login(context.Background(), staff.LoginRequest{Email: "  Jess@Guidelight.test ", Password: "Sativa123"})
	require.NoError(t, err)

	claims, err := tokens.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, st.ID.String(), claims.StaffID)
	assert.Equal(t, "budtender", claims.Role)
	assert.Equal(t, "Jess", res.Staff.DisplayName)
	repo.AssertExpectations(t)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, _, _ := newTestService(repo)
	st := budtender(t, "Sativa123")

	repo.On("FindByEmail", mock.Anything, "jess@guidelight.test").Return(st, nil)
	repo.On("FindByEmail", mock.Anything, "nobody@guidelight.test").Return(nil, staff.ErrStaffNotFound)

	_, err := svc.Login(context.Background(), staff.LoginRequest{Email: "jess@guidelight.test", Password: "wrong"})
	assert.ErrorIs(t, err, staff.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), staff.LoginRequest{Email: "nobody@guidelight.test", Password: "wrong"})
	assert.ErrorIs(t, err, staff.ErrInvalidCredentials)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, _, c := newTestService(repo)
	st := budtender(t, "Sativa123")
	repo.On("FindByEmail", mock.Anything, st.Email).Return(st, nil)

	for i := 0; i < MaxFailedLogins; i++ {
		_, err := svc.Login(context.Background(), staff.LoginRequest{Email: st.Email, Password: "nope"})
		require.ErrorIs(t, err, staff.ErrInvalidCredentials)
	}

	// even the right password is refused while locked
	_, err := svc.Login(context.Background(), staff.LoginRequest{Email: st.Email, Password: "Sativa123"})
	assert.ErrorIs(t, err, staff.ErrTooManyAttempts)

	ttl, _ := c.TTL(context.Background(), failedLoginKey(st.Email))
	assert.InDelta(t, LockoutDuration.Seconds(), ttl.Seconds(), 5)
}

func TestLogin_InactiveStaff(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, _, _ := newTestService(repo)
	st := budtender(t, "Sativa123")
	st.IsActive = false
	repo.On("FindByEmail", mock.Anything, st.Email).Return(st, nil)

	_, err := svc.Login(context.Background(), staff.LoginRequest{Email: st.Email, Password: "Sativa123"})
	assert.ErrorIs(t, err, staff.ErrStaffInactive)
}

func TestRefreshAndLogout(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, tokens, _ := newTestService(repo)
	st := budtender(t, "Sativa123")
	repo.On("FindByID", mock.Anything, st.ID).Return(st, nil)

	refresh, err := tokens.GenerateRefreshToken(st.ID.String())
	require.NoError(t, err)

	res, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	require.NoError(t, svc.Logout(context.Background(), refresh))
	_, err = svc.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, staff.ErrInvalidToken)
}

func TestCreateStaff_ValidationIs422(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, _, _ := newTestService(repo)

	_, err := svc.CreateStaff(context.Background(), staff.CreateStaffRequest{
		Email:       "new@guidelight.test",
		DisplayName: "New",
		Role:        "owner",
		Password:    "short",
	})
	require.ErrorIs(t, err, apperror.ErrValidation)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	fields := appErr.Details.(map[string]string)
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "password")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateStaff_HashesPassword(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, _, _ := newTestService(repo)

	var saved *staff.Staff
	repo.On("Create", mock.Anything, mock.AnythingOfType("*staff.Staff")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*staff.Staff) }).
		Return(nil)

	p, err := svc.CreateStaff(context.Background(), staff.CreateStaffRequest{
		Email:       "Manager@Guidelight.test",
		DisplayName: " Sam ",
		Role:        staff.RoleManager,
		Password:    "Indica456",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager@guidelight.test", p.Email)
	assert.Equal(t, "Sam", p.DisplayName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("Indica456")))
}

func TestUpdateStaff_ManagerCannotDemoteSelf(t *testing.T) {
	repo := new(mockStaffRepo)
	svc, _, _ := newTestService(repo)
	me := budtender(t, "Sativa123")
	me.Role = staff.RoleManager
	repo.On("FindByID", mock.Anything, me.ID).Return(me, nil)

	role := staff.RoleBudtender
	_, err := svc.UpdateStaff(context.Background(), me.ID, me.ID, staff.UpdateStaffRequest{Role: &role})
	assert.ErrorIs(t, err, staff.ErrCannotDemoteSelf)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
