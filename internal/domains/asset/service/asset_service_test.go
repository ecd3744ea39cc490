package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/domains/asset"
	"guidelight-backend/internal/infrastructure/storage"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
)

// --- fakes ---

type mockAssetRepo struct {
	mock.Mock
}

func (m *mockAssetRepo) Create(ctx context.Context, a *asset.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *mockAssetRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*asset.Asset, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uuid.UUID]*asset.Asset), args.Error(1)
}

func (m *mockAssetRepo) SetVariants(ctx context.Context, id uuid.UUID, thumb, medium string) error {
	return m.Called(ctx, id, thumb, medium).Error(0)
}

func (m *mockAssetRepo) SetStatus(ctx context.Context, id uuid.UUID, status asset.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "http://minio/guidelight/" + key, nil
}

func (s *memStore) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (s *memStore) RemoveFolder(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	s.removed = append(s.removed, prefix)
	return nil
}

func (s *memStore) ListPrefixes(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for k := range s.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		folder := prefix + rest[:strings.Index(rest, "/")+1]
		if !seen[folder] {
			seen[folder] = true
			out = append(out, folder)
		}
	}
	return out, nil
}

type recordingQueue struct {
	tasks []*asynq.Task
}

func (q *recordingQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// --- tests ---

func TestUpload_StoresOriginalAndEnqueuesVariants(t *testing.T) {
	repo := new(mockAssetRepo)
	store := newMemStore()
	queue := &recordingQueue{}
	ctx := context.Background()
	owner := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*asset.Asset")).Return(nil)

	svc := NewAssetService(repo, store, storage.NewImageProcessor(), queue)
	a, err := svc.Upload(ctx, asset.UploadInput{OwnerID: owner, Data: pngBytes(t, 800, 600)})
	require.NoError(t, err)

	assert.Equal(t, asset.StatusProcessing, a.Status)
	assert.Equal(t, "image/png", a.ContentType)
	assert.Equal(t, asset.Prefix(a.ID)+"original.png", a.ObjectKey)
	assert.Contains(t, store.objects, a.ObjectKey)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, shared.TypeProcessAssetVariants, queue.tasks[0].Type())
	var payload asset.ProcessVariantsPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, a.ID, payload.AssetID)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	repo := new(mockAssetRepo)
	queue := &recordingQueue{}

	svc := NewAssetService(repo, newMemStore(), storage.NewImageProcessor(), queue)
	_, err := svc.Upload(context.Background(), asset.UploadInput{OwnerID: uuid.New(), Data: []byte("not an image")})
	assert.ErrorIs(t, err, asset.ErrInvalidImage)
	assert.Empty(t, queue.tasks)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessVariants_UploadsThumbnailAndMedium(t *testing.T) {
	repo := new(mockAssetRepo)
	store := newMemStore()
	ctx := context.Background()
	id := uuid.New()
	key := asset.Prefix(id) + "original.png"
	_, _ = store.Upload(ctx, key, pngBytes(t, 1200, 800), "image/png")

	repo.On("GetByID", ctx, id).Return(&asset.Asset{ID: id, ObjectKey: key}, nil)
	repo.On("SetVariants", ctx, id,
		"http://minio/guidelight/"+asset.Prefix(id)+"thumbnail.jpg",
		"http://minio/guidelight/"+asset.Prefix(id)+"medium.jpg").Return(nil)

	svc := NewAssetService(repo, store, storage.NewImageProcessor(), &recordingQueue{})
	require.NoError(t, svc.ProcessVariants(ctx, id))
	repo.AssertExpectations(t)
}

func TestDelete_OnlyOwnerOrManager(t *testing.T) {
	repo := new(mockAssetRepo)
	queue := &recordingQueue{}
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&asset.Asset{ID: id, OwnerID: owner}, nil)
	repo.On("Delete", ctx, id).Return(nil)

	svc := NewAssetService(repo, newMemStore(), storage.NewImageProcessor(), queue)

	err := svc.Delete(ctx, other, false, id)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, other, true, id))
	require.Len(t, queue.tasks, 1)
	assert.Equal(t, shared.TypeDeleteAssetObjects, queue.tasks[0].Type())
}

func TestSweepOrphans_RemovesFoldersWithoutRows(t *testing.T) {
	repo := new(mockAssetRepo)
	store := newMemStore()
	ctx := context.Background()
	kept, orphan := uuid.New(), uuid.New()
	_, _ = store.Upload(ctx, asset.Prefix(kept)+"original.jpg", []byte("a"), "image/jpeg")
	_, _ = store.Upload(ctx, asset.Prefix(orphan)+"original.jpg", []byte("b"), "image/jpeg")

	repo.On("GetByIDs", ctx, mock.Anything).Return(map[uuid.UUID]*asset.Asset{kept: {ID: kept}}, nil)

	svc := NewAssetService(repo, store, storage.NewImageProcessor(), &recordingQueue{})
	removed, err := svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{asset.Prefix(orphan)}, store.removed)
}
