package localstore

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/healthquest-go/internal/common/valkeyx"
)

// DefaultValkeyPrefix 는 로컬 상태 키 접두사다. 키 형식: {prefix}:{namespace}:{key}
const DefaultValkeyPrefix = "hq:local"

// ValkeyBackend 는 키오스크/서버 배치에서 기기별 로컬 상태를 Valkey 에 둔다.
type ValkeyBackend struct {
	client  valkey.Client
	prefix  string
	timeout time.Duration
}

// NewValkeyBackend 는 ValkeyBackend 를 만든다. timeout 이 0 이하면 호출자 ctx 만 따른다.
func NewValkeyBackend(client valkey.Client, prefix string, timeout time.Duration) *ValkeyBackend {
	if prefix == "" {
		prefix = DefaultValkeyPrefix
	}
	return &ValkeyBackend{client: client, prefix: prefix, timeout: timeout}
}

// Name 은 드라이버 이름이다.
func (b *ValkeyBackend) Name() string { return DriverValkey }

func (b *ValkeyBackend) key(namespace, key string) string {
	return valkeyx.Key(b.prefix, namespace, key)
}

func (b *ValkeyBackend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// Load 는 GET 으로 값을 읽는다.
func (b *ValkeyBackend) Load(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return valkeyx.GetBytes(ctx, b.client, b.key(namespace, key))
}

// Save 는 만료 없이 SET 한다. 로컬 상태는 명시적으로 지울 때까지 유지된다.
func (b *ValkeyBackend) Save(ctx context.Context, namespace, key string, value []byte) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return valkeyx.SetString(ctx, b.client, b.key(namespace, key), string(value))
}
