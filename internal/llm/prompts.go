// Package llm holds the prompts shared by the model clients.
package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"portfolio-news-alerts/internal/types"
)

// AlertSeverityThreshold is the severity at or above which the model is told to
// answer ALERT. It only appears in the instruction text.
const AlertSeverityThreshold = 70

// DefaultMaxItems caps how many news items are sent in one request.
const DefaultMaxItems = 80

const SystemPrompt = "You are a portfolio intelligence analyst. You are advice-only. " +
	"You monitor the user's tickers and produce actionable, non-hyped analysis. " +
	"You think outside the box: second-order effects, correlations, regulation, supply chain, dilution risk, " +
	"short interest dynamics, ETF structure risks, and macro sensitivity. " +
	"Be explicit about uncertainty and what would change your view. " +
	"Do not fabricate events; use only the provided news items."

// Request is the JSON object sent as the user message.
type Request struct {
	Task         string     `json:"task"`
	Requirements []string   `json:"requirements"`
	Tickers      []string   `json:"tickers"`
	NewsItems    []ItemJSON `json:"news_items"`
}

// ItemJSON is a news item as the model sees it.
type ItemJSON struct {
	Symbol   string `json:"symbol"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime string `json:"datetime"`
	Category string `json:"category"`
}

func dailyTask() (string, []string) {
	return "Create a daily briefing for the user's tickers based ONLY on the news_items provided.",
		[]string{
			"Group by ticker; include 0\u20133 bullets each; skip tickers with no meaningful items.",
			"Add an 'Outside-the-box insights' section connecting tickers/themes.",
			"Add 'Recommendations (advice-only)' per ticker: Hold/Add/Trim/Avoid + 1\u20132 sentence rationale.",
			"Add a 'Watch next' checklist (earnings, filings, catalysts).",
			"Keep it concise and skimmable.",
		}
}

func breakingTask() (string, []string) {
	return "Decide whether this is important enough to alert the user now (advice-only). Use ONLY the news_items provided.",
		[]string{
			"Score severity 0-100 (100 = immediate action).",
			fmt.Sprintf("If severity < %d, say 'NO ALERT' and give a 2 sentence rationale.", AlertSeverityThreshold),
			fmt.Sprintf("If severity >= %d, say 'ALERT' and provide: what happened, why it matters, what to do next (advice-only).", AlertSeverityThreshold),
		}
}

// BuildRequest assembles the user payload for mode, keeping the first maxItems items.
func BuildRequest(tickers []string, items []types.NewsItem, mode types.Mode, maxItems int) Request {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	task, reqs := dailyTask()
	if mode == types.ModeBreaking {
		task, reqs = breakingTask()
	}

	payload := make([]ItemJSON, 0, len(items))
	for _, it := range items {
		payload = append(payload, ItemJSON{
			Symbol:   it.Symbol,
			Headline: it.Headline,
			Summary:  it.Summary,
			Source:   it.Source,
			URL:      it.URL,
			Datetime: it.ISOTimestamp(),
			Category: it.Category,
		})
	}

	if tickers == nil {
		tickers = []string{}
	}
	return Request{Task: task, Requirements: reqs, Tickers: tickers, NewsItems: payload}
}

// UserMessage renders the request as compact JSON.
func (r Request) UserMessage() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
