package news

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"portfolio-news-alerts/internal/logger"
	"portfolio-news-alerts/internal/types"
)

const (
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxSummaryChars = 600
	minParagraph    = 40
)

// Enricher fills in missing summaries from the article page.
type Enricher struct {
	timeout time.Duration
}

func NewEnricher(timeout time.Duration) *Enricher {
	return &Enricher{timeout: timeout}
}

// Enrich sets Summary on items that have none. Page failures are logged and skipped;
// identity fields are never touched.
func (e *Enricher) Enrich(ctx context.Context, items []types.NewsItem) {
	for i := range items {
		if strings.TrimSpace(items[i].Summary) != "" || items[i].URL == "" {
			continue
		}
		desc, err := e.Describe(ctx, items[i].URL)
		if err != nil {
			logger.Warn(ctx, "Failed to enrich summary", "symbol", items[i].Symbol, "url", items[i].URL, "error", err)
			continue
		}
		items[i].Summary = desc
	}
}

// Describe returns the page description of articleURL: og:description, then the
// description meta tag, then the first substantial paragraph.
func (e *Enricher) Describe(ctx context.Context, articleURL string) (string, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(e.timeout)

	var desc string
	c.OnHTML("html", func(h *colly.HTMLElement) {
		desc = describe(h.DOM)
	})

	if err := c.Visit(articleURL); err != nil {
		return "", err
	}
	c.Wait()
	return desc, nil
}

func describe(doc *goquery.Selection) string {
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if v := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); v != "" {
			return clip(v)
		}
	}

	var para string
	doc.Find("article p, main p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) < minParagraph {
			return true
		}
		para = text
		return false
	})
	return clip(para)
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxSummaryChars {
		return s
	}
	return strings.TrimSpace(string(r[:maxSummaryChars])) + "..."
}
