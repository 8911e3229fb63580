package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: "WARN", Format: "json", Output: &buf}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	Info(ctx, "hidden")
	Warn(ctx, "shown", "symbol", "OKLO")
	ErrorWithErr(ctx, "failed", errors.New("boom"))

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["msg"] != "shown" || lines[0]["symbol"] != "OKLO" {
		t.Errorf("unexpected warn line: %v", lines[0])
	}
	if lines[1]["error"] != "boom" {
		t.Errorf("expected error field, got %v", lines[1])
	}
}

func TestDebugRequiresDetailedLogging(t *testing.T) {
	var buf bytes.Buffer
	_ = InitWithConfig(LogConfig{Level: "DEBUG", Format: "json", Output: &buf})
	Debug(context.Background(), "quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output without detailed logging, got %s", buf.String())
	}

	_ = InitWithConfig(LogConfig{Level: "DEBUG", Format: "json", DetailedLogging: true, Output: &buf})
	Debug(context.Background(), "loud")
	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	src, ok := lines[0]["source"].(map[string]any)
	if !ok {
		t.Fatalf("expected source group, got %v", lines[0])
	}
	if !strings.HasSuffix(src["file"].(string), "logger_test.go") {
		t.Errorf("source should point at the caller, got %v", src["file"])
	}
}

func TestZapBackend(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: "INFO", Format: "zap", Output: &buf}); err != nil {
		t.Fatal(err)
	}

	Verdict(context.Background(), "breaking", false, "no new items", "fresh", 0)
	if err := Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["msg"] != "Run verdict" || lines[0]["type"] != "VERDICT" || lines[0]["notify"] != false {
		t.Errorf("unexpected zap line: %v", lines[0])
	}
}

func TestOperationTimerLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	_ = InitWithConfig(LogConfig{Level: "INFO", Format: "json", Output: &buf})

	op := StartOperation(context.Background(), "news.Fetch", "symbol", "SMR")
	if op.GetContext() == nil {
		t.Fatal("expected a context")
	}
	op.EndWithError(errors.New("timeout"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0]["msg"] != "Operation failed" || lines[0]["symbol"] != "SMR" || lines[0]["error"] != "timeout" {
		t.Errorf("unexpected failure line: %v", lines[0])
	}
}
