package interfaces

import (
	"context"
	"time"

	"portfolio-news-alerts/internal/types"
)

// NewsFetcher returns the company news published for symbol within lookback of now.
type NewsFetcher interface {
	Fetch(ctx context.Context, symbol string, lookback time.Duration) ([]types.NewsItem, error)
}
