package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"guidelight-backend/internal/config"
	"guidelight-backend/pkg/container"
	"guidelight-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(context.WithoutCancel(ctx), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize container")
	}
	defer c.Cleanup()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(redisOpt, handlers)
	scheduler := setupScheduler(redisOpt, cfg.Jobs)

	if err := startServices(ctx, c); err != nil {
		log.Fatal().Err(err).Msg("startup health check failed")
	}

	<-ctx.Done()

	log.Info().Msg("worker stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("worker stopped")
}
