package types

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects which run the orchestrator performs.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModeBreaking Mode = "breaking"
)

// ParseMode normalizes a MODE value.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDaily:
		return ModeDaily, nil
	case ModeBreaking:
		return ModeBreaking, nil
	default:
		return "", fmt.Errorf("MODE must be 'daily' or 'breaking'")
	}
}

// CategoryError tags the synthetic item produced when a ticker's fetch fails.
const CategoryError = "error"

// NewsItem is one normalized company-news record.
type NewsItem struct {
	Symbol    string
	Headline  string
	Summary   string
	Source    string
	URL       string
	Timestamp time.Time
	Category  string
}

const (
	isoLayout      = "2006-01-02T15:04:05-07:00"
	isoMicroLayout = "2006-01-02T15:04:05.000000-07:00"
)

// ISOTimestamp renders the timestamp in UTC as ISO-8601 with an explicit +00:00
// offset. Microseconds are printed only when non-zero. Fingerprints, ordering and
// prompt payloads all use this exact string.
func (n NewsItem) ISOTimestamp() string {
	t := n.Timestamp.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(isoMicroLayout)
	}
	return t.Format(isoLayout)
}

// ParseTickers splits a comma separated list into upper-case symbols, dropping blanks.
func ParseTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RunResult summarizes one completed run for logs and the run journal.
type RunResult struct {
	Mode     Mode      `json:"mode"`
	Started  time.Time `json:"started"`
	Tickers  int       `json:"tickers"`
	Fetched  int       `json:"fetched"`
	Fresh    int       `json:"fresh"`
	Notified bool      `json:"notified"`
	Subject  string    `json:"subject,omitempty"`
	Reason   string    `json:"reason"`
}
