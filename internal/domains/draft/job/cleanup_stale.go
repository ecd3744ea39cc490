package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/domains/draft"
)

// CleanupStaleDraftsPayload is empty; the retention comes from config
type CleanupStaleDraftsPayload struct{}

// CleanupStaleDraftsHandler deletes drafts nobody has touched within the
// retention window
type CleanupStaleDraftsHandler struct {
	repo      draft.Repository
	retention time.Duration
	now       func() time.Time
}

func NewCleanupStaleDraftsHandler(repo draft.Repository, retention time.Duration) *CleanupStaleDraftsHandler {
	return &CleanupStaleDraftsHandler{repo: repo, retention: retention, now: time.Now}
}

func (h *CleanupStaleDraftsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := h.now().Add(-h.retention)

	deleted, err := h.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete stale drafts: %w", err)
	}
	log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("stale drafts cleaned up")
	return nil
}
