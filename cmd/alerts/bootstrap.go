package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"portfolio-news-alerts/internal/dedup"
	"portfolio-news-alerts/internal/engine"
	"portfolio-news-alerts/internal/engine/engineobs"
	"portfolio-news-alerts/internal/interfaces"
	"portfolio-news-alerts/internal/llm/llmobs"
	"portfolio-news-alerts/internal/llm/openai"
	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/news"
	"portfolio-news-alerts/internal/news/newsobs"
	"portfolio-news-alerts/internal/notify"
	"portfolio-news-alerts/internal/notify/notifyobs"
	"portfolio-news-alerts/internal/runlog"
	"portfolio-news-alerts/internal/store"
	"portfolio-news-alerts/internal/trace"
)

const defaultConfigFile = "config.yaml"

// initializeSystem loads .env and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig reads CONFIG_FILE (default config.yaml) and the environment.
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

func initializeFetcher(ctx context.Context, cfg *store.Config) interfaces.NewsFetcher {
	fc := news.FinnhubConfig{
		APIKey:  cfg.Finnhub.APIKey,
		Timeout: cfg.FetchTimeout(),
	}
	if cfg.Finnhub.EnrichSummaries {
		logger.Info(ctx, "Summary enrichment enabled")
		fc.Enricher = news.NewEnricher(cfg.FetchTimeout())
	}
	return newsobs.Wrap(news.NewFinnhubFetcher(fc))
}

func initializeSummarizer(cfg *store.Config) interfaces.Summarizer {
	s := openai.NewSummarizer(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxItems:    cfg.LLM.MaxItems,
	})
	return llmobs.Wrap(s)
}

func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.Notifier {
	if cfg.DryRun {
		logger.Warn(ctx, "Running in DRY_RUN mode - mail is printed, not sent")
		return notifyobs.Wrap(notify.NewDryRunNotifier(os.Stdout, cfg.Email.From, cfg.Email.To), "dry-run")
	}
	return notifyobs.Wrap(notify.NewSendGridNotifier(notify.SendGridConfig{
		APIKey: cfg.Email.SendGridAPIKey,
		From:   cfg.Email.From,
		To:     cfg.Email.To,
	}), "sendgrid")
}

// initializeEngine wires every component into the orchestrator.
func initializeEngine(ctx context.Context, cfg *store.Config) interfaces.Engine {
	eng := engine.New(
		cfg,
		initializeFetcher(ctx, cfg),
		initializeSummarizer(cfg),
		initializeNotifier(ctx, cfg),
		dedup.NewFileStore(cfg.SeenPath),
		runlog.New(cfg.RunLog.Dir, cfg.RunLog.RetentionDays),
	)
	return engineobs.Wrap(eng, cfg.Mode)
}
