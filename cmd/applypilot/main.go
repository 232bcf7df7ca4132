package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/applypilot/applypilot/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(false)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsDev {
		logger = bootstrap.InitLogger(true)
	}

	logger.InfoContext(ctx, "starting applypilot",
		"mode", cfg.Mode.String(),
		"driver", cfg.Driver,
		"output_dir", cfg.Storage.OutputDir)

	engine, err := bootstrap.BuildEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Console commands (pause, resume, stop, skip, confirm) arrive on
	// stdin. The reader goroutine ends at EOF; it holds no resources
	// worth waiting for.
	go engine.Operator.ReadFrom(os.Stdin)

	_, err = engine.Runner.Run(ctx)
	return err
}
