package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/internal/domains/pick"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/pkg/cache"
)

// --- mocks ---

type mockPickRepo struct {
	mock.Mock
}

func (m *mockPickRepo) Create(ctx context.Context, p *pick.Pick) error {
	args := m.Called(ctx, p)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPickRepo) Update(ctx context.Context, p *pick.Pick) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPickRepo) GetByID(ctx context.Context, id uuid.UUID) (*pick.Pick, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *pick.Pick); ok {
		return fn(ctx, id), args.Error(1)
	}
	return args.Get(0).(*pick.Pick), args.Error(1)
}

func (m *mockPickRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*pick.Pick, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*pick.Pick), args.Error(1)
}

func (m *mockPickRepo) List(ctx context.Context, filter pick.ListFilter) ([]pick.Pick, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]pick.Pick), args.Int(1), args.Error(2)
}

func (m *mockPickRepo) ListVisible(ctx context.Context) ([]pick.Pick, error) {
	args := m.Called(ctx)
	return args.Get(0).([]pick.Pick), args.Error(1)
}

func (m *mockPickRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type stubCategories struct{}

func (stubCategories) ByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	return &category.Category{ID: id, Name: category.NameFlower, IsActive: true}, nil
}

func (stubCategories) ByName(_ context.Context, name string) (*category.Category, error) {
	return &category.Category{ID: uuid.New(), Name: name, IsActive: true}, nil
}

func newTestService(repo *mockPickRepo, now time.Time) *pickService {
	svc := NewPickService(repo, stubCategories{}, cache.NewMemory(), time.Minute).(*pickService)
	svc.now = func() time.Time { return now }
	return svc
}

func name(s string) *string { return &s }

// --- tests ---

func TestUpdate_ReactivationRefreshesLastActiveAt(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	id := uuid.New()
	previous := &pick.Pick{ID: id, StaffID: uuid.New(), IsActive: false, LastActiveAt: &t0, Status: pick.StatusPublished}

	var written *pick.Pick
	repo.On("Update", ctx, mock.AnythingOfType("*pick.Pick")).Run(func(args mock.Arguments) {
		written = args.Get(1).(*pick.Pick)
	}).Return(nil)
	repo.On("GetByID", ctx, id).Return(func(context.Context, uuid.UUID) *pick.Pick { return written }, nil)

	svc := newTestService(repo, t1)
	got, err := svc.Update(ctx, id, pick.Input{CategoryID: uuid.New(), Name: name("Blue Dream"), IsActive: true}, previous)
	require.NoError(t, err)

	require.NotNil(t, got.LastActiveAt)
	assert.True(t, got.LastActiveAt.After(t0))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, previous.StaffID, got.StaffID)
	// the hint is not mutated
	assert.False(t, previous.IsActive)
}

func TestSetActive_DeactivationKeepsLastActiveAt(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	owner := uuid.New()
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&pick.Pick{ID: id, StaffID: owner, IsActive: true, LastActiveAt: &t0}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*pick.Pick")).Return(nil)

	svc := newTestService(repo, t0.Add(24*time.Hour))
	got, err := svc.SetActive(ctx, shared.Actor{ID: owner, Role: shared.RoleBudtender}, id, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.LastActiveAt)
	assert.True(t, got.LastActiveAt.Equal(t0))
}

func TestSetActive_OtherBudtenderForbidden(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&pick.Pick{ID: id, StaffID: uuid.New()}, nil)

	svc := newTestService(repo, time.Now())
	_, err := svc.SetActive(ctx, shared.Actor{ID: uuid.New(), Role: shared.RoleBudtender}, id, true)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreate_InactiveLeavesLastActiveAtNil(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()

	var written *pick.Pick
	repo.On("Create", ctx, mock.AnythingOfType("*pick.Pick")).Run(func(args mock.Arguments) {
		written = args.Get(1).(*pick.Pick)
	}).Return(nil)
	repo.On("GetByID", ctx, mock.Anything).Return(func(context.Context, uuid.UUID) *pick.Pick { return written }, nil)

	svc := newTestService(repo, time.Now())
	got, err := svc.Create(ctx, pick.Input{StaffID: uuid.New(), CategoryID: uuid.New(), Name: name("OG Kush")})
	require.NoError(t, err)
	assert.Nil(t, got.LastActiveAt)
	assert.Equal(t, pick.StatusPublished, got.Status)
}

func TestCreate_TooManyEffectTags(t *testing.T) {
	repo := new(mockPickRepo)
	svc := newTestService(repo, time.Now())

	_, err := svc.Create(context.Background(), pick.Input{
		CategoryID: uuid.New(),
		EffectTags: []string{"Calm", "Happy", "Sleepy", "Focused"},
	})
	assert.ErrorIs(t, err, pick.ErrTooManyEffect)
}

func TestDisplayFeed_CachedUntilWrite(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	owner := uuid.New()
	visible := []pick.Pick{{ID: uuid.New(), StaffID: owner, CategoryName: "Deals", DealTitle: name("BOGO"), IsActive: true, Status: pick.StatusPublished}}
	repo.On("ListVisible", ctx).Return(visible, nil)

	svc := newTestService(repo, time.Now())
	feed, err := svc.DisplayFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "BOGO", feed[0].Title)

	_, err = svc.DisplayFeed(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListVisible", 1)

	id := visible[0].ID
	repo.On("GetByID", ctx, id).Return(&visible[0], nil)
	repo.On("Delete", ctx, id).Return(nil)
	require.NoError(t, svc.Delete(ctx, shared.Actor{ID: owner, Role: shared.RoleBudtender}, id))

	_, err = svc.DisplayFeed(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "ListVisible", 2)
}

func TestExportXLSX_WritesHeaderAndRows(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	rating := 5
	repo.On("List", ctx, pick.ListFilter{Page: 1}).Return([]pick.Pick{
		{ID: uuid.New(), CategoryName: "Flower", Name: name("Blue Dream"), Rating: &rating, EffectTags: []string{"Calm", "Happy"}},
	}, 1, nil)

	var buf bytes.Buffer
	require.NoError(t, newTestService(repo, time.Now()).ExportXLSX(ctx, pick.ListFilter{Limit: 50}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][2])
	assert.Equal(t, "Blue Dream", rows[1][2])
	assert.Equal(t, "Calm, Happy", rows[1][10])
}

func TestSetStatus_ArchiveHidesAndKeepsLastActiveAt(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	t0 := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	owner := uuid.New()
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&pick.Pick{ID: id, StaffID: owner, IsActive: true, LastActiveAt: &t0, Status: pick.StatusPublished}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(p *pick.Pick) bool { return p.Status == pick.StatusArchived })).Return(nil)

	svc := newTestService(repo, t0.Add(48*time.Hour))
	got, err := svc.SetStatus(ctx, shared.Actor{ID: uuid.New(), Role: shared.RoleManager}, id, pick.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, pick.StatusArchived, got.Status)
	assert.True(t, got.IsActive)
	assert.False(t, got.Visible())
	require.NotNil(t, got.LastActiveAt)
	assert.True(t, got.LastActiveAt.Equal(t0))
	repo.AssertExpectations(t)
}

func TestSetStatus_SameStatusIsNoop(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&pick.Pick{ID: id, StaffID: owner, Status: pick.StatusPublished}, nil)

	svc := newTestService(repo, time.Now())
	got, err := svc.SetStatus(ctx, shared.Actor{ID: owner, Role: shared.RoleBudtender}, id, pick.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, pick.StatusPublished, got.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	repo := new(mockPickRepo)

	svc := newTestService(repo, time.Now())
	_, err := svc.SetStatus(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleManager}, uuid.New(), pick.Status("draft"))
	assert.ErrorIs(t, err, pick.ErrInvalidStatus)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSetStatus_OtherBudtenderForbidden(t *testing.T) {
	repo := new(mockPickRepo)
	ctx := context.Background()
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&pick.Pick{ID: id, StaffID: uuid.New(), Status: pick.StatusPublished}, nil)

	svc := newTestService(repo, time.Now())
	_, err := svc.SetStatus(ctx, shared.Actor{ID: uuid.New(), Role: shared.RoleBudtender}, id, pick.StatusArchived)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
