package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/config"
	draftJob "guidelight-backend/internal/domains/draft/job"
	"guidelight-backend/internal/shared"
)

// Scheduler enqueues the periodic maintenance jobs
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	if err := s.registerCleanupStaleDraftsJob(); err != nil {
		return err
	}
	return s.registerSweepOrphanAssetsJob()
}

// ================================================
// Stale drafts
// ================================================
func (s *Scheduler) registerCleanupStaleDraftsJob() error {
	payload, err := json.Marshal(draftJob.CleanupStaleDraftsPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.DraftCleanupCron,
		asynq.NewTask(shared.TypeCleanupStaleDrafts, payload),
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", shared.TypeCleanupStaleDrafts, err)
	}

	log.Info().
		Str("cron", s.jobConfig.DraftCleanupCron).
		Dur("retention", s.jobConfig.DraftRetention).
		Msg("registered stale draft cleanup")
	return nil
}

// ================================================
// Orphan asset objects
// ================================================
func (s *Scheduler) registerSweepOrphanAssetsJob() error {
	_, err := s.scheduler.Register(
		s.jobConfig.AssetSweepCron,
		asynq.NewTask(shared.TypeSweepOrphanAssets, nil),
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", shared.TypeSweepOrphanAssets, err)
	}

	log.Info().Str("cron", s.jobConfig.AssetSweepCron).Msg("registered orphan asset sweep")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
