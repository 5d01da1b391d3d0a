// Package mq 는 미션 결과 스트림을 기기별 진행도 엔진으로 전달한다.
package mq

import (
	"context"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/healthquest-go/internal/common/bootstrap"
	commonconfig "github.com/park285/healthquest-go/internal/common/config"
	commonmq "github.com/park285/healthquest-go/internal/common/mq"
	"github.com/park285/healthquest-go/internal/heroquest/progress"
)

// MissionResultHandler: 스트림 엔트리를 Hub 의 기기 엔진에 적용한다.
type MissionResultHandler struct {
	hub    *progress.Hub
	logger *slog.Logger
}

// NewMissionResultHandler: 새로운 MissionResultHandler 인스턴스를 생성합니다.
func NewMissionResultHandler(hub *progress.Hub, logger *slog.Logger) *MissionResultHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MissionResultHandler{hub: hub, logger: logger}
}

// Handle 은 commonmq.Handler 시그니처를 따른다. 깨진 엔트리는 로그만 남기고 ACK 한다.
func (h *MissionResultHandler) Handle(ctx context.Context, msg commonmq.XMessage) error {
	result, err := ParseMissionResult(msg.Values)
	if err != nil {
		h.logger.WarnContext(ctx, "mission_result_malformed", "id", msg.ID, "err", err)
		return nil
	}

	// 엔진 내부 로그(remote_call_failed 등)에도 엔트리 ID 가 붙는다.
	ctx = bootstrap.WithLogAttrs(ctx, slog.String("stream_entry_id", msg.ID))
	engine := h.hub.Engine(result.Device)
	attrs := []any{"id", msg.ID, "device_id", result.Device}

	if result.HasBadge() {
		synced := engine.AwardBadge(ctx, result.BadgeID, result.Points)
		attrs = append(attrs, "badge_id", result.BadgeID, "badge_synced", synced)
	}
	if result.HasMission() {
		synced := engine.RecordMissionProgress(ctx, result.MissionType, result.MissionName, result.Score, result.Completed)
		attrs = append(attrs, "mission_type", result.MissionType, "mission_name", result.MissionName, "mission_synced", synced)
	}

	h.logger.InfoContext(ctx, "mission_result_applied", attrs...)
	return nil
}

// NewConsumer 는 설정값으로 미션 결과 스트림 소비자를 만든다.
func NewConsumer(client valkey.Client, cfg commonconfig.StreamConfig, logger *slog.Logger) *commonmq.StreamConsumer {
	return commonmq.NewStreamConsumer(client, logger, commonmq.StreamConsumerConfig{
		Stream:              cfg.StreamKey,
		Group:               cfg.ConsumerGroup,
		Name:                cfg.ConsumerName,
		BatchSize:           cfg.BatchSize,
		Block:               cfg.BlockTimeout,
		Concurrency:         cfg.Concurrency,
		ResetGroupOnStartup: cfg.ResetConsumerGroupOnStartup,
		AckOnError:          true,
	})
}
