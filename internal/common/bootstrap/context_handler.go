package bootstrap

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type logAttrsKey struct{}

// WithLogAttrs: 이후 ctx 로 남기는 모든 로그에 붙을 속성을 context 에 추가합니다.
func WithLogAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	existing, _ := ctx.Value(logAttrsKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, logAttrsKey{}, merged)
}

// ContextHandler: ctx 에 실린 정보를 레코드에 붙인다.
// WithLogAttrs 속성(device_id 등)은 항상, trace_id/span_id 는 추적 상관관계를 켰을 때만 붙는다.
type ContextHandler struct {
	inner slog.Handler
	trace bool
}

// NewContextHandler 는 inner 를 감싼 ContextHandler 를 만든다.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// WithTraceCorrelation 은 유효한 span 의 trace_id/span_id 도 붙이는 복사본을 반환한다.
func (h *ContextHandler) WithTraceCorrelation() *ContextHandler {
	return &ContextHandler{inner: h.inner, trace: true}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs, ok := ctx.Value(logAttrsKey{}).([]slog.Attr); ok {
		record.AddAttrs(attrs...)
	}
	if h.trace {
		if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
			record.AddAttrs(
				slog.String("trace_id", spanCtx.TraceID().String()),
				slog.String("span_id", spanCtx.SpanID().String()),
			)
		}
	}
	//nolint:wrapcheck // slog.Handler interface implementation
	return h.inner.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), trace: h.trace}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name), trace: h.trace}
}
