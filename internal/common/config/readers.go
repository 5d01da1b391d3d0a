package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(strings.TrimSpace(host), strconv.Itoa(port))
}

// ReadServerConfigFromEnv: HTTP 서버 호스트와 포트 설정을 환경 변수에서 읽어옵니다.
func ReadServerConfigFromEnv(defaultPort int) (ServerConfig, error) {
	serverPort, err := IntFromEnv("SERVER_PORT", defaultPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}
	if serverPort <= 0 || serverPort > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid SERVER_PORT: %d", serverPort)
	}

	return ServerConfig{
		Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}, nil
}

// ReadServerTuningConfigFromEnv: HTTP 서버 튜닝 설정(Timeouts, Limits)을 환경 변수에서 읽어옵니다.
func ReadServerTuningConfigFromEnv() (ServerTuningConfig, error) {
	readHeaderTimeout, err := DurationMillisFromEnv("SERVER_READ_HEADER_TIMEOUT_MS", 5000)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_READ_HEADER_TIMEOUT_MS failed: %w", err)
	}

	idleTimeout, err := DurationMillisFromEnv("SERVER_IDLE_TIMEOUT_MS", 90_000)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_IDLE_TIMEOUT_MS failed: %w", err)
	}

	maxHeaderBytes, err := IntFromEnv("SERVER_MAX_HEADER_BYTES", 1<<20)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_HEADER_BYTES failed: %w", err)
	}
	if maxHeaderBytes < 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_HEADER_BYTES: %d", maxHeaderBytes)
	}

	shutdownTimeout, err := DurationMillisFromEnv("SERVER_SHUTDOWN_TIMEOUT_MS", 10_000)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_SHUTDOWN_TIMEOUT_MS failed: %w", err)
	}

	return ServerTuningConfig{
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
		ShutdownTimeout:   shutdownTimeout,
	}, nil
}

// ReadRedisConfigFromEnv: Valkey 연결 설정을 환경 변수에서 읽어옵니다.
func ReadRedisConfigFromEnv() (RedisConfig, error) {
	port, err := IntFromEnvFirstNonEmpty([]string{"VALKEY_PORT", "REDIS_PORT"}, 6379)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read valkey port failed: %w", err)
	}

	db, err := IntFromEnvFirstNonEmpty([]string{"VALKEY_DB", "REDIS_DB"}, 0)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read valkey db failed: %w", err)
	}

	timeout, err := DurationMillisFromEnv("VALKEY_TIMEOUT_MS", 3000)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("read VALKEY_TIMEOUT_MS failed: %w", err)
	}

	return RedisConfig{
		Host:        StringFromEnvFirstNonEmpty([]string{"VALKEY_HOST", "REDIS_HOST"}, "localhost"),
		Port:        port,
		Password:    StringFromEnvFirstNonEmpty([]string{"VALKEY_PASSWORD", "REDIS_PASSWORD"}, ""),
		DB:          db,
		DialTimeout: 10 * time.Second,
		Timeout:     timeout,
	}, nil
}

// StreamConfigDefaults: 스트림 설정 기본값입니다.
type StreamConfigDefaults struct {
	StreamKey     string
	ConsumerGroup string
	ConsumerName  string
}

// ReadStreamConfigFromEnv: Valkey Streams 소비자 설정을 환경 변수에서 읽어옵니다.
func ReadStreamConfigFromEnv(defaults StreamConfigDefaults) (StreamConfig, error) {
	enabled, err := BoolFromEnv("MQ_ENABLED", false)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read MQ_ENABLED failed: %w", err)
	}

	resetGroup, err := BoolFromEnv("MQ_RESET_CONSUMER_GROUP", false)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read MQ_RESET_CONSUMER_GROUP failed: %w", err)
	}

	batchSize, err := Int64FromEnv("MQ_BATCH_SIZE", 10)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read MQ_BATCH_SIZE failed: %w", err)
	}

	blockTimeout, err := DurationMillisFromEnv("MQ_BLOCK_TIMEOUT_MS", 5000)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read MQ_BLOCK_TIMEOUT_MS failed: %w", err)
	}

	concurrency, err := IntFromEnv("MQ_CONCURRENCY", 4)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read MQ_CONCURRENCY failed: %w", err)
	}

	if batchSize <= 0 {
		batchSize = 10
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	return StreamConfig{
		Enabled:                     enabled,
		StreamKey:                   StringFromEnv("MQ_STREAM_KEY", defaults.StreamKey),
		ConsumerGroup:               StringFromEnv("MQ_CONSUMER_GROUP", defaults.ConsumerGroup),
		ConsumerName:                StringFromEnv("MQ_CONSUMER_NAME", defaults.ConsumerName),
		ResetConsumerGroupOnStartup: resetGroup,
		BatchSize:                   batchSize,
		BlockTimeout:                blockTimeout,
		Concurrency:                 concurrency,
	}, nil
}

// ReadLogConfigFromEnv: 로그 파일 출력 설정(디렉터리, 크기, 백업 수)을 환경 변수에서 읽어옵니다.
func ReadLogConfigFromEnv() (LogConfig, error) {
	dir := StringFromEnv("LOG_DIR", "")
	if dir == "" {
		return LogConfig{}, nil
	}

	maxSizeMB, err := IntFromEnv("LOG_MAX_SIZE_MB", 10)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_MAX_SIZE_MB failed: %w", err)
	}
	maxBackups, err := IntFromEnv("LOG_MAX_BACKUPS", 14)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_MAX_BACKUPS failed: %w", err)
	}
	maxAgeDays, err := IntFromEnv("LOG_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_MAX_AGE_DAYS failed: %w", err)
	}
	if maxSizeMB <= 0 || maxBackups <= 0 || maxAgeDays <= 0 {
		return LogConfig{}, fmt.Errorf("invalid log rotation: size=%d backups=%d age_days=%d", maxSizeMB, maxBackups, maxAgeDays)
	}

	compress, err := BoolFromEnv("LOG_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Dir:        dir,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}

// ReadTelemetryConfigFromEnv: OpenTelemetry 설정을 환경 변수에서 읽어옵니다.
func ReadTelemetryConfigFromEnv(serviceName string) (TelemetryConfig, error) {
	enabled, err := BoolFromEnv("OTEL_ENABLED", false)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_ENABLED failed: %w", err)
	}

	insecure, err := BoolFromEnv("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_EXPORTER_OTLP_INSECURE failed: %w", err)
	}

	sampleRate, err := Float64FromEnv("OTEL_SAMPLE_RATE", 1.0)
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("read OTEL_SAMPLE_RATE failed: %w", err)
	}

	return TelemetryConfig{
		Enabled:        enabled,
		ServiceName:    StringFromEnv("OTEL_SERVICE_NAME", serviceName),
		ServiceVersion: StringFromEnv("SERVICE_VERSION", "dev"),
		Environment:    StringFromEnv("DEPLOYMENT_ENVIRONMENT", "development"),
		OTLPEndpoint:   StringFromEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure:   insecure,
		SampleRate:     sampleRate,
	}, nil
}
