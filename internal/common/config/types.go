package config

import "time"

// ServerConfig: HTTP 서버 주소/포트 설정입니다.
type ServerConfig struct {
	Host string // 서버 바인딩 호스트
	Port int    // 서버 리스닝 포트
}

// Addr: host:port 형식의 바인딩 주소를 반환합니다.
func (c ServerConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}

// ServerTuningConfig: HTTP 서버 튜닝 설정(Timeouts, Limits)입니다.
type ServerTuningConfig struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	ShutdownTimeout   time.Duration
}

// RedisConfig: Valkey 연결 설정입니다.
type RedisConfig struct {
	Host     string // 서버 호스트
	Port     int    // 서버 포트
	Password string // 인증 패스워드
	DB       int    // 사용할 DB 번호

	DialTimeout time.Duration // 연결 타임아웃
	Timeout     time.Duration // 명령 타임아웃
}

// Addr: host:port 형식의 Valkey 주소를 반환합니다.
func (c RedisConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}

// StreamConfig: Valkey Streams 소비자 설정입니다.
type StreamConfig struct {
	Enabled                     bool
	StreamKey                   string        // 미션 결과 스트림 키
	ConsumerGroup               string        // Consumer Group 이름
	ConsumerName                string        // Consumer 식별자
	ResetConsumerGroupOnStartup bool          // 시작 시 Consumer Group 초기화 여부
	BatchSize                   int64         // 한 번에 읽을 메시지 수
	BlockTimeout                time.Duration // XREADGROUP 블록 타임아웃
	Concurrency                 int           // 동시 처리 워커 수
}

// LogConfig: 파일 로그 로테이션 설정입니다.
type LogConfig struct {
	Dir string // 로그 파일 디렉터리

	MaxSizeMB  int  // 단일 파일 최대 크기 (MB)
	MaxBackups int  // 보관할 백업 파일 수
	MaxAgeDays int  // 백업 파일 보관 일수
	Compress   bool // 백업 파일 압축 여부
}

// TelemetryConfig: OpenTelemetry 트레이싱 설정입니다.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}
