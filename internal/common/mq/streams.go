package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/park285/healthquest-go/internal/common/telemetry"
	"github.com/park285/healthquest-go/internal/common/valkeyx"
)

const tracerName = "healthquest-go/valkey-consumer"

// StreamConsumerConfig: 스트림 소비자 설정 구조체
type StreamConsumerConfig struct {
	Stream string
	Group  string
	Name   string

	BatchSize   int64
	Block       time.Duration
	Concurrency int

	ResetGroupOnStartup bool
	AckOnError          bool

	AckMaxRetries  int
	AckRetryDelay  time.Duration
	GroupStartFrom string

	// 연결 에러 재시도 백오프
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	BackoffFactor  float64
}

func (cfg StreamConsumerConfig) normalized() (StreamConsumerConfig, error) {
	cfg.Stream = strings.TrimSpace(cfg.Stream)
	cfg.Group = strings.TrimSpace(cfg.Group)
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Stream == "" || cfg.Group == "" || cfg.Name == "" {
		return StreamConsumerConfig{}, errors.New("stream/group/name must be set")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.AckMaxRetries <= 0 {
		cfg.AckMaxRetries = 1
	}
	if cfg.AckRetryDelay <= 0 {
		cfg.AckRetryDelay = 100 * time.Millisecond
	}
	if strings.TrimSpace(cfg.GroupStartFrom) == "" {
		cfg.GroupStartFrom = "$"
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 30 * time.Second
	}
	if cfg.BackoffFactor <= 1 {
		cfg.BackoffFactor = 2.0
	}
	return cfg, nil
}

// XMessage: 스트림에서 읽어온 엔트리
type XMessage struct {
	ID     string
	Values map[string]string
}

// Handler: 엔트리 하나를 처리한다. 에러를 반환하면 AckOnError 설정에 따라 ACK 여부가 갈린다.
type Handler func(ctx context.Context, msg XMessage) error

// StreamConsumer: Consumer Group 으로 스트림 엔트리를 처리하는 소비자
type StreamConsumer struct {
	client valkey.Client
	logger *slog.Logger
	cfg    StreamConsumerConfig
}

// NewStreamConsumer: 새로운 StreamConsumer 인스턴스를 생성합니다.
func NewStreamConsumer(client valkey.Client, logger *slog.Logger, cfg StreamConsumerConfig) *StreamConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamConsumer{client: client, logger: logger, cfg: cfg}
}

// Run: ctx 가 끝날 때까지 엔트리를 읽어 handler 에 넘깁니다. 진행 중인 handler 는 반환 전에 모두 끝납니다.
func (c *StreamConsumer) Run(ctx context.Context, handler Handler) error {
	cfg, err := c.cfg.normalized()
	if err != nil {
		return err
	}

	if cfg.ResetGroupOnStartup {
		err = c.resetGroup(ctx, cfg)
	} else {
		err = c.ensureGroup(ctx, cfg)
	}
	if err != nil {
		return err
	}

	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	backoff := cfg.BackoffInitial
	for ctx.Err() == nil {
		messages, readErr := c.readBatch(ctx, cfg)
		if readErr != nil {
			if valkeyx.IsNil(readErr) || (errors.Is(readErr, context.DeadlineExceeded) && ctx.Err() == nil) {
				backoff = cfg.BackoffInitial
				continue
			}
			if ctx.Err() != nil {
				return nil
			}

			if isNoGroupOrNoStreamErr(readErr) {
				c.logger.Info("consumer_group_missing_recreating", "stream", cfg.Stream, "group", cfg.Group)
				recreateErr := c.ensureGroup(ctx, cfg)
				if recreateErr == nil {
					backoff = cfg.BackoffInitial
					continue
				}
				c.logger.Warn("consumer_group_recreate_failed", "err", recreateErr, "stream", cfg.Stream)
			}

			c.logger.Warn("xreadgroup_failed", "err", readErr, "stream", cfg.Stream, "group", cfg.Group, "backoff", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = min(time.Duration(float64(backoff)*cfg.BackoffFactor), cfg.BackoffMax)
			continue
		}

		backoff = cfg.BackoffInitial
		for _, msg := range messages {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return nil
			}
			wg.Add(1)
			go func(m XMessage) {
				defer wg.Done()
				defer func() { <-sem }()
				c.handleMessage(ctx, cfg, m, handler)
			}(msg)
		}
	}
	return nil
}

func (c *StreamConsumer) readBatch(ctx context.Context, cfg StreamConsumerConfig) ([]XMessage, error) {
	cmd := c.client.B().Xreadgroup().
		Group(cfg.Group, cfg.Name).
		Count(cfg.BatchSize).
		Block(cfg.Block.Milliseconds()).
		Streams().Key(cfg.Stream).Id(">").
		Build()

	result, err := c.client.Do(ctx, cmd).AsXRead()
	if err != nil {
		return nil, fmt.Errorf("xreadgroup failed: %w", err)
	}

	entries := result[cfg.Stream]
	messages := make([]XMessage, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, XMessage{ID: entry.ID, Values: entry.FieldValues})
	}
	return messages, nil
}

func (c *StreamConsumer) handleMessage(ctx context.Context, cfg StreamConsumerConfig, msg XMessage, handler Handler) {
	parentCtx := telemetry.ExtractFields(ctx, msg.Values)
	spanCtx, span := otel.Tracer(tracerName).Start(parentCtx, "Valkey.ProcessMessage",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "valkey"),
			attribute.String("messaging.destination", cfg.Stream),
			attribute.String("messaging.message_id", msg.ID),
			attribute.String("messaging.consumer_group", cfg.Group),
		),
	)
	defer span.End()

	if handleErr := handler(spanCtx, msg); handleErr != nil {
		span.RecordError(handleErr)
		span.SetStatus(codes.Error, handleErr.Error())
		c.logger.ErrorContext(spanCtx, "message_handler_failed", "err", handleErr, "stream", cfg.Stream, "id", msg.ID)
		if !cfg.AckOnError {
			return
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}

	if errAck := c.ackWithRetry(spanCtx, cfg, msg.ID); errAck != nil {
		c.logger.WarnContext(spanCtx, "xack_failed", "err", errAck, "stream", cfg.Stream, "id", msg.ID)
	}
}

func (c *StreamConsumer) ensureGroup(ctx context.Context, cfg StreamConsumerConfig) error {
	cmd := c.client.B().XgroupCreate().Key(cfg.Stream).Group(cfg.Group).Id(cfg.GroupStartFrom).Mkstream().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil && !valkeyx.IsBusyGroup(err) {
		return fmt.Errorf("xgroup create failed stream=%s group=%s: %w", cfg.Stream, cfg.Group, err)
	}

	consumerCmd := c.client.B().XgroupCreateconsumer().Key(cfg.Stream).Group(cfg.Group).Consumer(cfg.Name).Build()
	_ = c.client.Do(ctx, consumerCmd).Error()
	return nil
}

func (c *StreamConsumer) resetGroup(ctx context.Context, cfg StreamConsumerConfig) error {
	destroyCmd := c.client.B().XgroupDestroy().Key(cfg.Stream).Group(cfg.Group).Build()
	if err := c.client.Do(ctx, destroyCmd).Error(); err != nil && !isNoGroupOrNoStreamErr(err) {
		return fmt.Errorf("xgroup destroy failed stream=%s group=%s: %w", cfg.Stream, cfg.Group, err)
	}
	return c.ensureGroup(ctx, cfg)
}

func (c *StreamConsumer) ackWithRetry(ctx context.Context, cfg StreamConsumerConfig, id string) error {
	var lastErr error
	for attempt := 0; attempt < cfg.AckMaxRetries; attempt++ {
		cmd := c.client.B().Xack().Key(cfg.Stream).Group(cfg.Group).Id(id).Build()
		if lastErr = c.client.Do(ctx, cmd).Error(); lastErr == nil {
			return nil
		}
		if attempt < cfg.AckMaxRetries-1 && !sleepWithContext(ctx, cfg.AckRetryDelay) {
			return nil
		}
	}
	return lastErr
}

// AddEntry: 스트림에 엔트리를 추가한다. ctx 의 trace context 가 함께 실린다.
func AddEntry(ctx context.Context, client valkey.Client, stream string, fields map[string]string) (string, error) {
	values := telemetry.InjectFields(ctx, fields)

	args := make([]string, 0, 1+2*len(values))
	args = append(args, "*")
	for k, v := range values {
		args = append(args, k, v)
	}

	cmd := client.B().Arbitrary("XADD").Keys(stream).Args(args...).Build()
	id, err := client.Do(ctx, cmd).ToString()
	if err != nil {
		return "", valkeyx.WrapRedisError("xadd", err)
	}
	return id, nil
}

func isNoGroupOrNoStreamErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "NOGROUP") ||
		strings.Contains(strings.ToLower(msg), "no such key") ||
		strings.Contains(msg, "requires the key to exist")
}

// sleepWithContext: 대기를 마치면 true, ctx 가 먼저 끝나면 false
func sleepWithContext(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
