package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/trace"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return 1
	}

	logger.Info(ctx, "Portfolio news alerts starting",
		"mode", cfg.Mode,
		"tickers", cfg.Tickers,
		"model", cfg.LLM.Model,
		"dry_run", cfg.DryRun,
	)

	if _, err := initializeEngine(ctx, cfg).Run(ctx); err != nil {
		return 1
	}
	return 0
}

func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush traces: %v\n", err)
	}
	_ = logger.Sync()
}
