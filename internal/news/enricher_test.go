package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"portfolio-news-alerts/internal/types"
)

func TestDescribeFallbacks(t *testing.T) {
	pages := map[string]string{
		"/og":   `<html><head><meta property="og:description" content=" From og. "><meta name="description" content="From meta."></head></html>`,
		"/meta": `<html><head><meta name="description" content="From meta."></head></html>`,
		"/para": `<html><body><article><p>Short.</p><p>The first paragraph that is long enough to count as a summary.</p></article></body></html>`,
		"/none": `<html><body><p>tiny</p></body></html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	e := NewEnricher(5 * time.Second)
	ctx := context.Background()

	tests := []struct {
		path string
		want string
	}{
		{"/og", "From og."},
		{"/meta", "From meta."},
		{"/para", "The first paragraph that is long enough to count as a summary."},
		{"/none", ""},
	}
	for _, tt := range tests {
		got, err := e.Describe(ctx, srv.URL+tt.path)
		assert.Equal(t, nil, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := e.Describe(ctx, srv.URL+"/missing")
	assert.NotEqual(t, nil, err)
}

func TestEnrichSkipsFailuresAndFilledItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	items := []types.NewsItem{
		{Symbol: "UUUU", Headline: "a", URL: srv.URL + "/a"},
		{Symbol: "UUUU", Headline: "b", URL: "", Summary: ""},
		{Symbol: "UUUU", Headline: "c", URL: srv.URL + "/c", Summary: "kept"},
	}
	NewEnricher(5*time.Second).Enrich(context.Background(), items)

	assert.Equal(t, "", items[0].Summary)
	assert.Equal(t, "", items[1].Summary)
	assert.Equal(t, "kept", items[2].Summary)
}

func TestClip(t *testing.T) {
	long := strings.Repeat("x", maxSummaryChars+10)
	got := clip(long)
	assert.Equal(t, maxSummaryChars+3, len(got))
	assert.Equal(t, true, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", clip("short"))
}
