package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"guidelight-backend/pkg/container"
)

const healthAddr = ":9999"

// startServices checks dependencies, then serves /health and /ready until ctx ends
func startServices(ctx context.Context, c *container.Container) error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"redis", c.Cache.Ping},
		{"postgres", c.DB.Ping},
	}

	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.fn(checkCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("dependency ok")
	}

	go startHealthCheckServer(ctx, c)
	return nil
}

func startHealthCheckServer(ctx context.Context, c *container.Container) {
	router := gin.New()
	router.GET("/health", func(g *gin.Context) {
		g.JSON(http.StatusOK, gin.H{"status": "UP", "service": "guidelight-worker"})
	})
	router.GET("/ready", func(g *gin.Context) {
		if err := c.Cache.Ping(g.Request.Context()); err != nil {
			g.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		g.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	srv := &http.Server{Addr: healthAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", healthAddr).Msg("health server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Err(err).Msg("health server failed")
	}
}
