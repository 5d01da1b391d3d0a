package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestContextHandler_AddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithLogAttrs(context.Background(), slog.String("device_id", "kiosk-1"))
	ctx = WithLogAttrs(ctx, slog.String("op", "award_badge"))
	logger.InfoContext(ctx, "badge_awarded")

	out := buf.String()
	if !strings.Contains(out, "device_id=kiosk-1") || !strings.Contains(out, "op=award_badge") {
		t.Fatalf("missing context attrs: %s", out)
	}
}

func TestContextHandler_TraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)).WithTraceCorrelation())

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "with_span")
	span.End()
	logger.Info("without_span")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "trace_id="+span.SpanContext().TraceID().String()) {
		t.Errorf("first line should carry trace id: %s", lines[0])
	}
	if strings.Contains(lines[1], "trace_id=") {
		t.Errorf("second line should not carry trace id: %s", lines[1])
	}
}

func TestContextHandler_NoTraceByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)).WithAttrs([]slog.Attr{slog.String("svc", "heroquest")}))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	logger.InfoContext(ctx, "with_span")

	if out := buf.String(); strings.Contains(out, "trace_id=") || !strings.Contains(out, "svc=heroquest") {
		t.Errorf("unexpected output: %s", out)
	}
}
