package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "traktarr",
		Usage:    "Add media from Trakt lists to Sonarr & Radarr",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	// Ctrl-C / SIGTERM cancel the context; long-running loops unwind
	// through it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
