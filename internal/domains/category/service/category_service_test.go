package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/domains/category"
	"guidelight-backend/pkg/cache"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) ListAll(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func seeded() []category.Category {
	return []category.Category{
		{ID: uuid.New(), Name: category.NameFlower, SortOrder: 0, IsActive: true},
		{ID: uuid.New(), Name: category.NameVapes, SortOrder: 1, IsActive: true},
		{ID: uuid.New(), Name: category.NameDeals, SortOrder: 2, IsActive: false},
	}
}

func TestList_CachesRepositoryResult(t *testing.T) {
	repo := new(mockCategoryRepo)
	ctx := context.Background()
	repo.On("ListAll", ctx).Return(seeded(), nil).Once()

	svc := NewCategoryService(repo, category.NewCache(repo, cache.NewMemory(), time.Hour))

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	repo.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestCreate_InvalidatesCache(t *testing.T) {
	repo := new(mockCategoryRepo)
	ctx := context.Background()
	list := seeded()
	repo.On("ListAll", ctx).Return(list, nil).Once()

	svc := NewCategoryService(repo, category.NewCache(repo, cache.NewMemory(), time.Hour))
	_, err := svc.List(ctx, true)
	require.NoError(t, err)

	repo.On("Create", ctx, mock.AnythingOfType("*category.Category")).Return(nil)
	created, err := svc.Create(ctx, category.CreateCategoryRequest{Name: "  Tinctures ", SortOrder: 10})
	require.NoError(t, err)
	assert.Equal(t, "Tinctures", created.Name)
	assert.Equal(t, "tinctures", created.Slug)
	assert.True(t, created.IsActive)

	repo.On("ListAll", ctx).Return(append(list, *created), nil).Once()
	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	repo.AssertNumberOfCalls(t, "ListAll", 2)
}

func TestCreate_ValidationFails(t *testing.T) {
	repo := new(mockCategoryRepo)
	svc := NewCategoryService(repo, category.NewCache(repo, cache.NewMemory(), time.Hour))

	_, err := svc.Create(context.Background(), category.CreateCategoryRequest{Name: "   "})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_AppliesPartialFields(t *testing.T) {
	repo := new(mockCategoryRepo)
	ctx := context.Background()
	existing := &category.Category{ID: uuid.New(), Name: "Edibles", Slug: "edibles", SortOrder: 4, IsActive: true}

	repo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)

	inactive := false
	svc := NewCategoryService(repo, category.NewCache(repo, cache.NewMemory(), time.Hour))
	updated, err := svc.Update(ctx, existing.ID, category.UpdateCategoryRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Edibles", updated.Name)
	assert.Equal(t, 4, updated.SortOrder)
}

func TestLookupByName_IsCaseInsensitive(t *testing.T) {
	repo := new(mockCategoryRepo)
	ctx := context.Background()
	repo.On("ListAll", ctx).Return(seeded(), nil)

	lookup := category.NewCache(repo, cache.NewMemory(), time.Hour)
	c, err := lookup.ByName(ctx, " flower ")
	require.NoError(t, err)
	assert.Equal(t, category.NameFlower, c.Name)

	_, err = lookup.ByName(ctx, "Seeds")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}
