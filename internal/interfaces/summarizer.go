package interfaces

import (
	"context"

	"portfolio-news-alerts/internal/types"
)

type Summarizer interface {
	// Summarize turns the items into the mail body for the given mode.
	Summarize(ctx context.Context, tickers []string, items []types.NewsItem, mode types.Mode) (string, error)
}
