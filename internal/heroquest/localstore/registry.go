package localstore

import (
	"log/slog"
	"strings"
	"sync"
)

// DefaultNamespace 는 기기 식별자가 없을 때 쓰는 namespace 다.
const DefaultNamespace = "default"

// Registry 는 기기별 Store 를 하나씩 캐시한다. 같은 기기는 항상 같은 Store 를 받는다.
type Registry struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry 는 backend 를 공유하는 Registry 를 만든다.
func NewRegistry(backend Backend, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		backend: backend,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Store 는 device 의 Store 를 반환한다. 없으면 만든다.
func (r *Registry) Store(device string) *Store {
	device = strings.TrimSpace(device)
	if device == "" {
		device = DefaultNamespace
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[device]; ok {
		return s
	}
	s := New(r.backend, device, r.logger.With("device_id", device))
	r.stores[device] = s
	return s
}

// Driver 는 공유 backend 의 드라이버 이름이다.
func (r *Registry) Driver() string {
	if r.backend == nil {
		return DriverMemory
	}
	return r.backend.Name()
}
