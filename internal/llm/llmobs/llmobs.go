package llmobs

import (
	"context"
	"time"

	"portfolio-news-alerts/internal/interfaces"
	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/trace"
	"portfolio-news-alerts/internal/types"
)

// observableSummarizer wraps a Summarizer with observability (logging & tracing)
type observableSummarizer struct {
	summarizer interfaces.Summarizer
}

var _ interfaces.Summarizer = (*observableSummarizer)(nil)

// Wrap wraps a summarizer with observability middleware
func Wrap(summarizer interfaces.Summarizer) interfaces.Summarizer {
	return &observableSummarizer{summarizer: summarizer}
}

func (o *observableSummarizer) Summarize(ctx context.Context, tickers []string, items []types.NewsItem, mode types.Mode) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Summarize")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting summary",
		"mode", mode,
		"tickers", len(tickers),
		"items", len(items),
	)

	start := time.Now()
	out, err := o.summarizer.Summarize(ctx, tickers, items, mode)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Summary request failed", err,
			"mode", mode,
			"items", len(items),
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Summary received",
		"mode", mode,
		"items", len(items),
		"chars", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
