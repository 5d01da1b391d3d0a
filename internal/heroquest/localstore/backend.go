package localstore

import (
	"context"
	"sync"
)

// Backend 는 (namespace, key) 단위 바이트 값 저장소다.
// 키가 없으면 ok=false, err=nil 이다. err 는 저장소 자체를 쓸 수 없을 때만 반환한다.
type Backend interface {
	Name() string
	Load(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Save(ctx context.Context, namespace, key string, value []byte) error
}

// MemoryBackend 는 프로세스 메모리에 값을 두는 Backend 다.
// 단독 드라이버로도 쓰이고, 다른 Backend 가 실패했을 때의 대체 저장소로도 쓰인다.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]map[string][]byte
}

// NewMemoryBackend 는 빈 MemoryBackend 를 만든다.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]map[string][]byte)}
}

// Name 은 드라이버 이름이다.
func (m *MemoryBackend) Name() string { return DriverMemory }

// Load 는 저장된 값의 사본을 반환한다.
func (m *MemoryBackend) Load(_ context.Context, namespace, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.values[namespace][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), raw...), true, nil
}

// Save 는 값의 사본을 저장한다.
func (m *MemoryBackend) Save(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.values[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.values[namespace] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}
