// Package trace owns the process-wide OpenTelemetry tracer. Tracing is opt-in
// through LOG_TRACING_ENABLED; when it is off every span is a no-op.
package trace

import (
	"context"
	"io"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "portfolio-news-alerts"
	serviceVersion = "1.0.0"
)

var (
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
)

// Init reads LOG_TRACING_ENABLED and, when set, exports spans to stderr so they
// never mix with mail bodies printed in dry-run mode.
func Init() error {
	on, _ := strconv.ParseBool(os.Getenv("LOG_TRACING_ENABLED"))
	return InitWithWriter(on, os.Stderr)
}

// InitWithWriter is Init with an explicit switch and exporter destination.
// Calling it again replaces the previous tracer.
func InitWithWriter(on bool, w io.Writer) error {
	tracer, provider, enabled = nil, nil, false
	if !on {
		return nil
	}

	tp, err := newProvider(w)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tp)
	tracer, provider, enabled = tp.Tracer(serviceName), tp, true
	return nil
}

func newProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// Shutdown flushes batched spans. A run lasts seconds, so main calls it before exit.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	return provider.Shutdown(ctx)
}

// StartSpan opens a child span, or hands back ctx untouched while tracing is off.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

func Enabled() bool { return enabled }

// GetTraceFields returns the hex ids of the span in ctx for log correlation.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
