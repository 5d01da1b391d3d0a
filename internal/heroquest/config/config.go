package config

import (
	"fmt"
	"strings"
	"time"

	commonconfig "github.com/park285/healthquest-go/internal/common/config"
)

// 기본값
const (
	ServiceName = "heroquest"

	DefaultServerPort     = 40270
	DefaultLocalDriver    = "sqlite"
	DefaultLocalSQLite    = "data/heroquest-local.db"
	DefaultDeviceID       = "default"
	DefaultStreamKey      = "heroquest:mission-results"
	DefaultConsumerGroup  = "heroquest-sync"
	DefaultConsumerName   = "heroquest-1"
	DefaultNarrationModel = "claude-3-5-haiku-latest"
)

// ServerConfig: HTTP 서버 설정 alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Valkey 연결 설정 alias
type RedisConfig = commonconfig.RedisConfig

// StreamConfig: 미션 결과 스트림 소비자 설정 alias
type StreamConfig = commonconfig.StreamConfig

// LogConfig: 파일 로그 설정 alias
type LogConfig = commonconfig.LogConfig

// LocalConfig: 기기 로컬 저장소 설정
type LocalConfig struct {
	Driver     string // valkey | sqlite | memory
	SQLitePath string
	DeviceID   string // X-Device-ID 가 없을 때 쓰는 기기
	KeyPrefix  string // valkey 드라이버 키 접두사
}

// PostgresConfig: 원격 PostgreSQL 설정
type PostgresConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN 은 gorm postgres 드라이버용 접속 문자열이다.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RemoteConfig: 원격 동기화 설정
type RemoteConfig struct {
	Enabled bool
	Timeout time.Duration // 호출별 타임아웃
}

// NarrationConfig: 내레이션 생성 설정. APIKey 가 없으면 고정 문구만 쓴다.
type NarrationConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// ClockConfig: 스트릭 날짜 비교 기준
type ClockConfig struct {
	Location *time.Location
}

// Config: 전체 애플리케이션 설정 구조체
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Redis        RedisConfig
	Local        LocalConfig
	Postgres     PostgresConfig
	Remote       RemoteConfig
	Stream       StreamConfig
	Narration    NarrationConfig
	Log          LogConfig
	Telemetry    commonconfig.TelemetryConfig
	Clock        ClockConfig
}

// NeedsValkey 는 Valkey 연결이 필요한 구성인지 확인한다.
func (c *Config) NeedsValkey() bool {
	return c.Local.Driver == "valkey" || c.Stream.Enabled
}

// LoadFromEnv: 환경 변수로부터 전체 애플리케이션 설정을 로드합니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	redisCfg, err := commonconfig.ReadRedisConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read redis config failed: %w", err)
	}
	postgres, err := readPostgresConfig()
	if err != nil {
		return nil, err
	}
	remote, err := readRemoteConfig()
	if err != nil {
		return nil, err
	}
	stream, err := commonconfig.ReadStreamConfigFromEnv(commonconfig.StreamConfigDefaults{
		StreamKey:     DefaultStreamKey,
		ConsumerGroup: DefaultConsumerGroup,
		ConsumerName:  DefaultConsumerName,
	})
	if err != nil {
		return nil, fmt.Errorf("read stream config failed: %w", err)
	}
	narration, err := readNarrationConfig()
	if err != nil {
		return nil, err
	}
	logCfg, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}
	telemetry, err := commonconfig.ReadTelemetryConfigFromEnv(ServiceName)
	if err != nil {
		return nil, fmt.Errorf("read telemetry config failed: %w", err)
	}
	clock, err := readClockConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Redis:        redisCfg,
		Local:        readLocalConfig(),
		Postgres:     postgres,
		Remote:       remote,
		Stream:       stream,
		Narration:    narration,
		Log:          logCfg,
		Telemetry:    telemetry,
		Clock:        clock,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 함께 쓸 수 없는 값을 거부한다.
func (c *Config) Validate() error {
	switch c.Local.Driver {
	case "valkey", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid LOCAL_STORE_DRIVER: %q", c.Local.Driver)
	}
	if c.Local.Driver == "sqlite" && strings.TrimSpace(c.Local.SQLitePath) == "" {
		return fmt.Errorf("LOCAL_SQLITE_PATH is required for sqlite driver")
	}
	if c.Remote.Enabled && strings.TrimSpace(c.Postgres.Host) == "" {
		return fmt.Errorf("DB_HOST is required when REMOTE_ENABLED")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("invalid REMOTE_TIMEOUT_MS: %v", c.Remote.Timeout)
	}
	if c.Narration.Timeout <= 0 {
		return fmt.Errorf("invalid NARRATION_TIMEOUT_MS: %v", c.Narration.Timeout)
	}
	if c.Clock.Location == nil {
		return fmt.Errorf("clock location is nil")
	}
	return nil
}

func readLocalConfig() LocalConfig {
	return LocalConfig{
		Driver:     strings.ToLower(commonconfig.StringFromEnv("LOCAL_STORE_DRIVER", DefaultLocalDriver)),
		SQLitePath: commonconfig.StringFromEnv("LOCAL_SQLITE_PATH", DefaultLocalSQLite),
		DeviceID:   commonconfig.StringFromEnv("HEROQUEST_DEVICE_ID", DefaultDeviceID),
		KeyPrefix:  commonconfig.StringFromEnv("LOCAL_VALKEY_PREFIX", "hq:local"),
	}
}

func readPostgresConfig() (PostgresConfig, error) {
	port, err := commonconfig.IntFromEnv("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, fmt.Errorf("read DB_PORT failed: %w", err)
	}

	return PostgresConfig{
		Host:     commonconfig.StringFromEnv("DB_HOST", ""),
		Port:     port,
		Name:     commonconfig.StringFromEnv("DB_NAME", "heroquest"),
		User:     commonconfig.StringFromEnv("DB_USER", "heroquest_app"),
		Password: commonconfig.StringFromEnv("DB_PASSWORD", ""),
		SSLMode:  commonconfig.StringFromEnv("DB_SSLMODE", "disable"),
	}, nil
}

// readRemoteConfig: REMOTE_ENABLED 가 없으면 DB_HOST 유무로 정한다.
func readRemoteConfig() (RemoteConfig, error) {
	enabled, err := commonconfig.BoolFromEnv("REMOTE_ENABLED", commonconfig.IsSet("DB_HOST"))
	if err != nil {
		return RemoteConfig{}, fmt.Errorf("read REMOTE_ENABLED failed: %w", err)
	}
	timeout, err := commonconfig.DurationMillisFromEnv("REMOTE_TIMEOUT_MS", 5000)
	if err != nil {
		return RemoteConfig{}, fmt.Errorf("read REMOTE_TIMEOUT_MS failed: %w", err)
	}
	return RemoteConfig{Enabled: enabled, Timeout: timeout}, nil
}

func readNarrationConfig() (NarrationConfig, error) {
	maxTokens, err := commonconfig.Int64FromEnv("NARRATION_MAX_TOKENS", 256)
	if err != nil {
		return NarrationConfig{}, fmt.Errorf("read NARRATION_MAX_TOKENS failed: %w", err)
	}
	timeout, err := commonconfig.DurationMillisFromEnv("NARRATION_TIMEOUT_MS", 8000)
	if err != nil {
		return NarrationConfig{}, fmt.Errorf("read NARRATION_TIMEOUT_MS failed: %w", err)
	}
	return NarrationConfig{
		APIKey:    commonconfig.StringFromEnvFirstNonEmpty([]string{"NARRATION_API_KEY", "ANTHROPIC_API_KEY"}, ""),
		Model:     commonconfig.StringFromEnv("NARRATION_MODEL", DefaultNarrationModel),
		MaxTokens: maxTokens,
		Timeout:   timeout,
	}, nil
}

func readClockConfig() (ClockConfig, error) {
	name := commonconfig.StringFromEnv("HEROQUEST_TIMEZONE", "Local")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return ClockConfig{}, fmt.Errorf("read HEROQUEST_TIMEZONE failed: %w", err)
	}
	return ClockConfig{Location: loc}, nil
}
