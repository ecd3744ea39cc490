package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"guidelight-backend/internal/display"
	"guidelight-backend/internal/session"
	"guidelight-backend/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sign in and keep a board on screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolve(v)
		if err != nil {
			return err
		}
		logger.Init("development", cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := display.NewClient(cfg.APIURL, cfg.DisplayToken, cfg.RequestTimeout)
		boot := session.NewBootstrapper(client, client, session.OnChange(func(s session.Snapshot) {
			log.Info().Str("state", string(s.State)).Int("attempts", s.Attempts).Msg("session state")
		}))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := boot.Run(gctx); err != nil && gctx.Err() == nil {
				return err
			}
			return nil
		})
		g.Go(func() error {
			return renderLoop(gctx, cfg, client, boot)
		})

		if err := g.Wait(); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

// renderLoop signs in when needed and redraws the board every interval
func renderLoop(ctx context.Context, cfg *displayConfig, client *display.Client, boot *session.Bootstrapper) error {
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		switch snap := boot.Snapshot(); snap.State {
		case session.StateUnauthenticated:
			if _, err := client.SignIn(ctx, cfg.Email, cfg.Password); err != nil {
				log.Warn().Err(err).Str("kind", string(session.Classify(err))).Msg("sign in failed")
				if session.Classify(err) == session.KindAuth {
					return fmt.Errorf("sign in rejected for %s: %w", cfg.Email, err)
				}
			}
		case session.StateProfileError:
			log.Warn().Str("error", snap.Error).Msg("profile unavailable, retrying")
			boot.Reload()
		case session.StateReady:
			if err := draw(ctx, client, cfg.Board); err != nil {
				log.Warn().Err(err).Str("board", cfg.Board).Msg("board refresh failed")
			}
			if flagOnce {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func draw(ctx context.Context, client *display.Client, slug string) error {
	view, err := client.FetchBoard(ctx, slug)
	if err != nil {
		return err
	}
	// clear the terminal before redrawing
	fmt.Fprint(os.Stdout, "\033[H\033[2J")
	return display.Render(os.Stdout, view)
}
