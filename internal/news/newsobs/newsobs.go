package newsobs

import (
	"context"
	"time"

	"portfolio-news-alerts/internal/interfaces"
	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/trace"
	"portfolio-news-alerts/internal/types"
)

type observableFetcher struct {
	fetcher interfaces.NewsFetcher
}

var _ interfaces.NewsFetcher = (*observableFetcher)(nil)

func Wrap(fetcher interfaces.NewsFetcher) interfaces.NewsFetcher {
	return &observableFetcher{fetcher: fetcher}
}

func (of *observableFetcher) Fetch(ctx context.Context, symbol string, lookback time.Duration) ([]types.NewsItem, error) {
	ctx, span := trace.StartSpan(ctx, "news.Fetch")
	defer span.End()

	start := time.Now()
	items, err := of.fetcher.Fetch(ctx, symbol, lookback)
	if err != nil {
		// WARN: the orchestrator decides whether a failed ticker matters.
		logger.WarnSkip(ctx, 1, "News fetch failed",
			"symbol", symbol,
			"lookback_hours", lookback.Hours(),
			"error", err,
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "News fetched",
		"symbol", symbol,
		"lookback_hours", lookback.Hours(),
		"items", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return items, nil
}
