package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-headline-relay/internal/app"
	"github.com/samvad-hq/samvad-headline-relay/internal/config"
	"github.com/samvad-hq/samvad-headline-relay/internal/domain"
	"github.com/samvad-hq/samvad-headline-relay/internal/logger"
	"github.com/samvad-hq/samvad-headline-relay/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("relay starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay, err := app.NewRelay(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize relay", "error", err.Error())
		return err
	}
	defer func() {
		if err := relay.Close(); err != nil {
			logger.ErrorObj("relay close failed", "error", err.Error())
		}
	}()

	if cfg.RunOnce {
		out := relay.RunOnce(ctx)
		if out.Status == domain.OutcomeFailed {
			return fmt.Errorf("run failed with status %d: %w", out.StatusCode(), out.Err)
		}
		return nil
	}

	if cfg.MetricsAddr != "" {
		go func() {
			logger.InfoObj("metrics endpoint listening", "metrics_addr", cfg.MetricsAddr)
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.ErrorObj("metrics server stopped", "error", err.Error())
			}
		}()
	}

	if err := relay.Run(ctx); err != nil {
		return fmt.Errorf("relay run: %w", err)
	}
	return nil
}
