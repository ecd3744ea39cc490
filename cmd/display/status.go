package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"guidelight-backend/internal/display"
	"guidelight-backend/internal/session"
	"guidelight-backend/pkg/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Sign in once and print the session bootstrap result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolve(v)
		if err != nil {
			return err
		}
		logger.Init("development", "warn")

		client := display.NewClient(cfg.APIURL, cfg.DisplayToken, cfg.RequestTimeout)
		snap, err := bootstrapOnce(cmd.Context(), cfg, client)
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		fmt.Printf("state:    %s\n", snap.State)
		if snap.Profile != nil {
			fmt.Printf("staff:    %s (%s)\n", snap.Profile.DisplayName, snap.Profile.Role)
		}
		if snap.Error != "" {
			fmt.Printf("error:    %s\n", snap.Error)
		}
		fmt.Printf("attempts: %d\n", snap.Attempts)
		return nil
	},
}

// bootstrapOnce signs in and waits for the bootstrap to settle
func bootstrapOnce(parent context.Context, cfg *displayConfig, client *display.Client) (session.Snapshot, error) {
	ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
	defer cancel()

	settled := make(chan session.Snapshot, 1)
	boot := session.NewBootstrapper(client, client, session.OnChange(func(s session.Snapshot) {
		if s.State == session.StateReady || s.State == session.StateProfileError {
			select {
			case settled <- s:
			default:
			}
		}
	}))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = boot.Run(runCtx) }()

	if _, err := client.SignIn(ctx, cfg.Email, cfg.Password); err != nil {
		return session.Snapshot{State: session.StateUnauthenticated, Kind: session.Classify(err), Error: err.Error()}, nil
	}

	select {
	case s := <-settled:
		return s, nil
	case <-ctx.Done():
		return boot.Snapshot(), nil
	}
}
