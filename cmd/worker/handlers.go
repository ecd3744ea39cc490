package main

import (
	"github.com/hibiken/asynq"

	assetJob "guidelight-backend/internal/domains/asset/job"
	draftJob "guidelight-backend/internal/domains/draft/job"
	"guidelight-backend/internal/shared"
	"guidelight-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processVariants *assetJob.ProcessVariantsHandler
	deleteObjects   *assetJob.DeleteObjectsHandler
	sweepOrphans    *assetJob.SweepOrphansHandler

	cleanupDrafts *draftJob.CleanupStaleDraftsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processVariants: assetJob.NewProcessVariantsHandler(c.AssetService),
		deleteObjects:   assetJob.NewDeleteObjectsHandler(c.AssetService),
		sweepOrphans:    assetJob.NewSweepOrphansHandler(c.AssetService),
		cleanupDrafts:   draftJob.NewCleanupStaleDraftsHandler(c.DraftRepo, c.Config.Jobs.DraftRetention),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Assets
	mux.HandleFunc(shared.TypeProcessAssetVariants, h.processVariants.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteAssetObjects, h.deleteObjects.ProcessTask)
	mux.HandleFunc(shared.TypeSweepOrphanAssets, h.sweepOrphans.ProcessTask)

	// Maintenance
	mux.HandleFunc(shared.TypeCleanupStaleDrafts, h.cleanupDrafts.ProcessTask)
}
