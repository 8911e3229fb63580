package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDisabledTracerReturnsParentContext(t *testing.T) {
	if err := InitWithWriter(false, nil); err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}

	ctx := context.Background()
	got, span := StartSpan(ctx, "noop")
	defer span.End()

	if got != ctx {
		t.Error("expected the parent context back when tracing is disabled")
	}
	if _, _, ok := GetTraceFields(got); ok {
		t.Error("expected no trace fields when tracing is disabled")
	}
}

func TestEnabledTracerExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(true, &buf); err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}
	defer func() { _ = InitWithWriter(false, nil) }()

	ctx, span := StartSpan(context.Background(), "fetch.OKLO")
	traceID, spanID, ok := GetTraceFields(ctx)
	if !ok || traceID == "" || spanID == "" {
		t.Fatalf("expected trace fields, got %q %q %v", traceID, spanID, ok)
	}
	span.End()

	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "fetch.OKLO") {
		t.Errorf("exported spans missing span name: %s", buf.String())
	}
}

func TestInitReadsEnvSwitch(t *testing.T) {
	defer func() { _ = InitWithWriter(false, nil) }()

	for _, tt := range []struct {
		value string
		want  bool
	}{
		{"", false},
		{"false", false},
		{"not-a-bool", false},
		{"true", true},
		{"1", true},
	} {
		t.Setenv("LOG_TRACING_ENABLED", tt.value)
		if err := Init(); err != nil {
			t.Fatalf("Init(%q): %v", tt.value, err)
		}
		if Enabled() != tt.want {
			t.Errorf("LOG_TRACING_ENABLED=%q: Enabled() = %v, want %v", tt.value, Enabled(), tt.want)
		}
	}
}
