package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/asset"
)

// ProcessVariantsHandler resizes a freshly uploaded asset
type ProcessVariantsHandler struct {
	service asset.Service
}

func NewProcessVariantsHandler(service asset.Service) *ProcessVariantsHandler {
	return &ProcessVariantsHandler{service: service}
}

func (h *ProcessVariantsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload asset.ProcessVariantsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("asset_id", payload.AssetID.String()).Msg("processing asset variants")

	if err := h.service.ProcessVariants(ctx, payload.AssetID); err != nil {
		log.Error().Err(err).Str("asset_id", payload.AssetID.String()).Msg("failed to process asset variants")
		return err
	}
	return nil
}

// DeleteObjectsHandler removes an asset folder after its row was deleted
type DeleteObjectsHandler struct {
	service asset.Service
}

func NewDeleteObjectsHandler(service asset.Service) *DeleteObjectsHandler {
	return &DeleteObjectsHandler{service: service}
}

func (h *DeleteObjectsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload asset.DeleteObjectsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.service.DeleteObjects(ctx, payload.Prefix); err != nil {
		log.Error().Err(err).Str("asset_id", payload.AssetID.String()).Msg("failed to delete asset objects")
		return err
	}
	log.Info().Str("asset_id", payload.AssetID.String()).Msg("asset objects deleted")
	return nil
}

// SweepOrphansHandler is the scheduled storage cleanup
type SweepOrphansHandler struct {
	service asset.Service
}

func NewSweepOrphansHandler(service asset.Service) *SweepOrphansHandler {
	return &SweepOrphansHandler{service: service}
}

func (h *SweepOrphansHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	removed, err := h.service.SweepOrphans(ctx)
	if err != nil {
		return fmt.Errorf("sweep orphan assets: %w", err)
	}
	log.Info().Int("removed", removed).Msg("orphan asset sweep finished")
	return nil
}
