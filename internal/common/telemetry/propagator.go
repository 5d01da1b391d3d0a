package telemetry

import (
	"context"
	"maps"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// InjectFields: fields 에 ctx 의 trace context(traceparent 등)를 더한 새 맵을 반환합니다.
// 이미 있는 필드는 덮어쓰지 않습니다.
func InjectFields(ctx context.Context, fields map[string]string) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	merged := make(map[string]string, len(fields)+len(carrier))
	maps.Copy(merged, carrier)
	maps.Copy(merged, fields)
	return merged
}

// ExtractFields: 스트림 엔트리 필드에서 부모 trace context 를 복원한 context 를 반환합니다.
// 필드에 traceparent 가 없으면 ctx 를 그대로 돌려줍니다.
func ExtractFields(ctx context.Context, values map[string]string) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(values))
}
