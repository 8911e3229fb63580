// Package news fetches recent company news for a ticker from Finnhub and normalizes
// it into types.NewsItem.
package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/types"
)

const dateLayout = "2006-01-02"

// FetchError is the recoverable per-ticker failure. Callers decide whether it is
// reported or dropped.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch news for %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FinnhubConfig configures the company-news client.
type FinnhubConfig struct {
	APIKey  string
	Timeout time.Duration
	// BaseURL overrides the API server, e.g. https://finnhub.io/api/v1.
	BaseURL string
	// Enricher fills empty summaries from the article page when set.
	Enricher *Enricher
}

// FinnhubFetcher implements interfaces.NewsFetcher on the Finnhub company-news endpoint.
type FinnhubFetcher struct {
	client   *finnhub.DefaultApiService
	enricher *Enricher
	now      func() time.Time
}

func NewFinnhubFetcher(cfg FinnhubConfig) *FinnhubFetcher {
	fc := finnhub.NewConfiguration()
	fc.AddDefaultHeader("X-Finnhub-Token", cfg.APIKey)
	fc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	if cfg.BaseURL != "" {
		fc.Servers = finnhub.ServerConfigurations{{URL: cfg.BaseURL}}
	}

	return &FinnhubFetcher{
		client:   finnhub.NewAPIClient(fc).DefaultApi,
		enricher: cfg.Enricher,
		now:      time.Now,
	}
}

// Fetch returns the items for symbol published no earlier than now-lookback. The API
// only filters by calendar date, so the window is applied again on the timestamps.
// Every failure is a *FetchError.
func (f *FinnhubFetcher) Fetch(ctx context.Context, symbol string, lookback time.Duration) ([]types.NewsItem, error) {
	now := f.now().UTC()
	from := now.Add(-lookback)

	res, _, err := f.client.CompanyNews(ctx).
		Symbol(symbol).
		From(from.Format(dateLayout)).
		To(now.Format(dateLayout)).
		Execute()
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}

	items := make([]types.NewsItem, 0, len(res))
	for _, n := range res {
		it := types.NewsItem{
			Symbol:    symbol,
			Timestamp: time.Unix(0, 0).UTC(),
		}
		if n.Datetime != nil {
			it.Timestamp = time.Unix(*n.Datetime, 0).UTC()
		}
		if it.Timestamp.Before(from) {
			continue
		}
		if n.Headline != nil {
			it.Headline = *n.Headline
		}
		if n.Summary != nil {
			it.Summary = *n.Summary
		}
		if n.Source != nil {
			it.Source = *n.Source
		}
		if n.Url != nil {
			it.URL = *n.Url
		}
		if n.Category != nil {
			it.Category = *n.Category
		}
		items = append(items, it)
	}

	if f.enricher != nil {
		f.enricher.Enrich(ctx, items)
	}

	logger.Debug(ctx, "Finnhub company news", "symbol", symbol, "returned", len(res), "in_window", len(items))
	return items, nil
}
