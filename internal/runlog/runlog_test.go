package runlog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio-news-alerts/internal/types"
)

func TestRecordAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	j := New(dir, 0)
	j.now = func() time.Time { return time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC) }

	ctx := context.Background()
	runs := []types.RunResult{
		{Mode: types.ModeBreaking, Tickers: 11, Fetched: 4, Fresh: 0, Reason: "no new items"},
		{Mode: types.ModeBreaking, Tickers: 11, Fetched: 5, Fresh: 1, Notified: true, Subject: "Portfolio Alert - 2024-05-01 23:30 UTC", Reason: "model reported an alert"},
	}
	for _, r := range runs {
		if err := j.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "runs", "2024-05-01.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		got = append(got, e)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0].Time != "2024-05-01T23:30:00Z" || got[0].Reason != "no new items" {
		t.Errorf("unexpected first entry: %+v", got[0])
	}
	if !got[1].Notified || got[1].Fresh != 1 || got[1].Subject == "" {
		t.Errorf("unexpected second entry: %+v", got[1])
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	runs := filepath.Join(dir, "runs")
	if err := os.MkdirAll(runs, 0o755); err != nil {
		t.Fatal(err)
	}

	old := filepath.Join(runs, "2024-04-01.txt")
	fresh := filepath.Join(runs, "2024-05-01.txt")
	for _, p := range []string{old, fresh} {
		if err := os.WriteFile(p, []byte(`{"mode":"daily"}`+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(old, now.AddDate(0, 0, -30), now.AddDate(0, 0, -30)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(fresh, now, now); err != nil {
		t.Fatal(err)
	}

	j := New(dir, 7)
	j.now = func() time.Time { return now }

	n, err := j.CompressOlder()
	if err != nil {
		t.Fatalf("CompressOlder: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 file compressed, got %d", n)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("old journal should be removed after compression")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("recent journal should be kept: %v", err)
	}

	gz, err := os.Open(old + ".gz")
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()
	zr, err := gzip.NewReader(gz)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(zr)
	if string(body) != `{"mode":"daily"}`+"\n" {
		t.Errorf("unexpected gz content %q", body)
	}
}

func TestCompressOlderNoDirectory(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "absent"), 3)
	if n, err := j.CompressOlder(); err != nil || n != 0 {
		t.Errorf("CompressOlder on a missing dir = %d, %v", n, err)
	}
}
