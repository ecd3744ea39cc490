package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"guidelight-backend/internal/config"
	"guidelight-backend/pkg/container"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP server, the editor session sweeper and the pool monitor
// until SIGINT/SIGTERM. Shutdown order: stop accepting requests, flush editor
// sessions and pending board orders, then close connections.
func Serve(cfg *config.Config) error {
	// appCtx outlives the signal so pending autosaves can still be written
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	c, err := container.NewContainer(appCtx, cfg)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer c.Cleanup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.App.Port),
		Handler:        SetupRouter(c),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second, // xlsx export
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	bgCtx, stopBackground := context.WithCancel(appCtx)
	defer stopBackground()

	g.Go(func() error {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return c.Editor.Run(bgCtx, cfg.Editor.SweepInterval)
	})

	g.Go(func() error {
		c.DB.MonitorPoolHealth(bgCtx, time.Minute)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(appCtx, shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("server forced to shutdown")
		}
		// editor Run flushes its sessions once bgCtx is cancelled
		stopBackground()
		if err := c.BoardService.Flush(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("pending board orders not saved")
		}
		return nil
	})

	err = g.Wait()
	log.Info().Msg("server exited")
	return err
}
