package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/asset"
	"guidelight-backend/internal/infrastructure/storage"
	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
)

// Enqueuer is the part of *asynq.Client the service uses
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type assetService struct {
	repo      asset.Repository
	store     storage.ObjectStore
	processor *storage.ImageProcessor
	queue     Enqueuer
}

func NewAssetService(repo asset.Repository, store storage.ObjectStore, processor *storage.ImageProcessor, queue Enqueuer) asset.Service {
	return &assetService{repo: repo, store: store, processor: processor, queue: queue}
}

func (s *assetService) Upload(ctx context.Context, in asset.UploadInput) (*asset.Asset, error) {
	format, err := s.processor.ValidateImage(in.Data)
	if err != nil {
		return nil, asset.ErrInvalidImage.Wrap(err)
	}

	id := uuid.New()
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	key := fmt.Sprintf("%soriginal.%s", asset.Prefix(id), ext)
	contentType := "image/" + format

	url, err := s.store.Upload(ctx, key, in.Data, contentType)
	if err != nil {
		return nil, asset.ErrUploadFailed.Wrap(err)
	}

	a := &asset.Asset{
		ID:          id,
		OwnerID:     in.OwnerID,
		ObjectKey:   key,
		OriginalURL: url,
		Status:      asset.StatusProcessing,
		ContentType: contentType,
		SizeBytes:   int64(len(in.Data)),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.enqueueDelete(ctx, id)
		return nil, err
	}

	payload, _ := json.Marshal(asset.ProcessVariantsPayload{AssetID: id})
	_, err = s.queue.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeProcessAssetVariants, payload),
		asynq.Queue(shared.QueueAssets), asynq.MaxRetry(3))
	if err != nil {
		// the original is usable without variants
		log.Warn().Err(err).Str("asset_id", id.String()).Msg("failed to enqueue variant processing")
	}

	log.Info().Str("asset_id", id.String()).Str("owner_id", in.OwnerID.String()).Int64("size", a.SizeBytes).Msg("asset uploaded")
	return a, nil
}

func (s *assetService) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *assetService) Delete(ctx context.Context, actorID uuid.UUID, isManager bool, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.OwnerID != actorID && !isManager {
		return apperror.Forbidden("delete this image")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.enqueueDelete(ctx, id)
	return nil
}

func (s *assetService) enqueueDelete(ctx context.Context, id uuid.UUID) {
	payload, _ := json.Marshal(asset.DeleteObjectsPayload{AssetID: id, Prefix: asset.Prefix(id)})
	_, err := s.queue.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeDeleteAssetObjects, payload),
		asynq.Queue(shared.QueueAssets), asynq.MaxRetry(5))
	if err != nil {
		// the weekly orphan sweep picks the folder up
		log.Warn().Err(err).Str("asset_id", id.String()).Msg("failed to enqueue object deletion")
	}
}

// ProcessVariants builds every configured variant from the stored original
func (s *assetService) ProcessVariants(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	original, err := s.store.Download(ctx, a.ObjectKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	variants, err := s.processor.ProcessImage(original)
	if err != nil {
		// a corrupt original will not get better on retry
		if statusErr := s.repo.SetStatus(ctx, id, asset.StatusFailed); statusErr != nil {
			log.Error().Err(statusErr).Str("asset_id", id.String()).Msg("failed to mark asset failed")
		}
		return fmt.Errorf("process image: %w: %w", err, asynq.SkipRetry)
	}

	urls := make(map[string]string, len(variants))
	for name, data := range variants {
		key := fmt.Sprintf("%s%s.jpg", asset.Prefix(id), name)
		url, err := s.store.Upload(ctx, key, data, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		urls[name] = url
	}

	return s.repo.SetVariants(ctx, id, urls["thumbnail"], urls["medium"])
}

func (s *assetService) DeleteObjects(ctx context.Context, prefix string) error {
	if !strings.HasPrefix(prefix, "assets/") {
		return fmt.Errorf("refusing to delete outside assets/: %q", prefix)
	}
	return s.store.RemoveFolder(ctx, prefix)
}

// SweepOrphans removes storage folders whose asset row no longer exists
func (s *assetService) SweepOrphans(ctx context.Context) (int, error) {
	prefixes, err := s.store.ListPrefixes(ctx, "assets/")
	if err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, 0, len(prefixes))
	for _, p := range prefixes {
		raw := strings.TrimSuffix(strings.TrimPrefix(p, "assets/"), "/")
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	existing, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		if err := s.store.RemoveFolder(ctx, asset.Prefix(id)); err != nil {
			log.Warn().Err(err).Str("asset_id", id.String()).Msg("failed to remove orphan folder")
			continue
		}
		removed++
	}
	return removed, nil
}
