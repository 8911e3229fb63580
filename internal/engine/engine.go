// Package engine runs one fetch, dedup, summarize and notify pass in daily or
// breaking mode.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"portfolio-news-alerts/internal/dedup"
	"portfolio-news-alerts/internal/interfaces"
	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/news"
	"portfolio-news-alerts/internal/store"
	"portfolio-news-alerts/internal/types"
)

const (
	dailySubjectPrefix = "Daily Portfolio Briefing - "
	alertSubjectPrefix = "Portfolio Alert - "

	ReasonDailySent  = "daily briefing sent"
	ReasonNoNewItems = "no new items"
	ReasonNoAlert    = "model reported no alert"
	ReasonAlertSent  = "alert sent"
)

type Engine struct {
	cfg        *store.Config
	fetcher    interfaces.NewsFetcher
	summarizer interfaces.Summarizer
	notifier   interfaces.Notifier
	seen       interfaces.SeenStore
	journal    interfaces.RunRecorder
	now        func() time.Time
}

// New builds an engine. journal may be nil.
func New(
	cfg *store.Config,
	fetcher interfaces.NewsFetcher,
	summarizer interfaces.Summarizer,
	notifier interfaces.Notifier,
	seen interfaces.SeenStore,
	journal interfaces.RunRecorder,
) *Engine {
	return &Engine{
		cfg:        cfg,
		fetcher:    fetcher,
		summarizer: summarizer,
		notifier:   notifier,
		seen:       seen,
		journal:    journal,
		now:        time.Now,
	}
}

var _ interfaces.Engine = (*Engine)(nil)

// Run dispatches on the configured mode and journals the outcome.
func (e *Engine) Run(ctx context.Context) (*types.RunResult, error) {
	var (
		res *types.RunResult
		err error
	)
	switch e.cfg.Mode {
	case types.ModeDaily:
		res, err = e.RunDaily(ctx)
	case types.ModeBreaking:
		res, err = e.RunBreaking(ctx)
	default:
		return nil, fmt.Errorf("MODE must be 'daily' or 'breaking', got %q", e.cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	logger.Verdict(ctx, string(res.Mode), res.Notified, res.Reason,
		"fetched", res.Fetched,
		"fresh", res.Fresh,
	)
	if e.journal != nil {
		if jerr := e.journal.Record(ctx, *res); jerr != nil {
			logger.Warn(ctx, "Failed to record run", "error", jerr)
		}
	}
	return res, nil
}

// RunDaily always mails a briefing. A ticker whose fetch fails is reported to the
// model as a synthetic error item instead of aborting the run.
func (e *Engine) RunDaily(ctx context.Context) (*types.RunResult, error) {
	now := e.now().UTC()
	res := &types.RunResult{Mode: types.ModeDaily, Started: now, Tickers: len(e.cfg.Tickers)}
	lookback := e.cfg.LookbackFor(types.ModeDaily)

	var all []types.NewsItem
	for _, sym := range e.cfg.Tickers {
		items, err := e.fetcher.Fetch(ctx, sym, lookback)
		if err != nil {
			all = append(all, errorItem(sym, err, e.now()))
			continue
		}
		res.Fetched += len(items)
		all = append(all, items...)
	}
	res.Fresh = len(all)
	sortNewestFirst(all)

	body, err := e.summarizer.Summarize(ctx, e.cfg.Tickers, all, types.ModeDaily)
	if err != nil {
		return nil, fmt.Errorf("summarize daily briefing: %w", err)
	}

	res.Subject = dailySubjectPrefix + now.Format("2006-01-02")
	if err := e.notifier.Notify(ctx, res.Subject, body); err != nil {
		return nil, fmt.Errorf("send daily briefing: %w", err)
	}
	res.Notified = true
	res.Reason = ReasonDailySent
	return res, nil
}

// RunBreaking mails only items never seen before, and only when the model's verdict
// does not suppress it. The seen-set is saved before any early return.
func (e *Engine) RunBreaking(ctx context.Context) (*types.RunResult, error) {
	now := e.now().UTC()
	res := &types.RunResult{Mode: types.ModeBreaking, Started: now, Tickers: len(e.cfg.Tickers)}
	lookback := e.cfg.LookbackFor(types.ModeBreaking)

	seen := e.seen.Load(ctx)

	var fresh []types.NewsItem
	for _, sym := range e.cfg.Tickers {
		items, err := e.fetcher.Fetch(ctx, sym, lookback)
		if err != nil {
			// Breaking runs skip a failed ticker; it is retried on the next run.
			logger.Warn(ctx, "Skipping ticker after fetch failure", "symbol", sym, "error", fetchCause(err))
			continue
		}
		res.Fetched += len(items)

		kept := dedup.Fresh(items, seen)
		logger.Dedup(ctx, sym, len(items), len(kept))
		fresh = append(fresh, kept...)
	}

	if err := e.seen.Save(ctx, seen); err != nil {
		return nil, fmt.Errorf("save seen-set: %w", err)
	}

	res.Fresh = len(fresh)
	if len(fresh) == 0 {
		res.Reason = ReasonNoNewItems
		return res, nil
	}
	sortNewestFirst(fresh)

	body, err := e.summarizer.Summarize(ctx, e.cfg.Tickers, fresh, types.ModeBreaking)
	if err != nil {
		return nil, fmt.Errorf("summarize breaking news: %w", err)
	}

	if suppressAlert(body) {
		res.Reason = ReasonNoAlert
		return res, nil
	}

	res.Subject = alertSubjectPrefix + now.Format("2006-01-02 15:04") + " UTC"
	if err := e.notifier.Notify(ctx, res.Subject, body); err != nil {
		return nil, fmt.Errorf("send alert: %w", err)
	}
	res.Notified = true
	res.Reason = ReasonAlertSent
	return res, nil
}

// suppressAlert is the verdict check as deployed. "NO ALERT" contains "ALERT", so it
// can never return true and every breaking summary is mailed.
// TODO: switch to a structured severity field once the breaking prompt asks for one.
func suppressAlert(body string) bool {
	return strings.Contains(body, "NO ALERT") && !strings.Contains(body, "ALERT")
}

// fetchCause strips the FetchError wrapper so logs and error items carry the cause.
func fetchCause(err error) error {
	var fe *news.FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		return fe.Err
	}
	return err
}

func errorItem(symbol string, err error, at time.Time) types.NewsItem {
	msg := fetchCause(err).Error()
	return types.NewsItem{
		Symbol:    symbol,
		Headline:  fmt.Sprintf("[Data error fetching news for %s]", symbol),
		Summary:   msg,
		Source:    "system",
		URL:       "",
		Timestamp: at.UTC(),
		Category:  types.CategoryError,
	}
}

// sortNewestFirst orders by the ISO timestamp string, descending. Ties keep their
// fetch order.
func sortNewestFirst(items []types.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ISOTimestamp() > items[j].ISOTimestamp()
	})
}
