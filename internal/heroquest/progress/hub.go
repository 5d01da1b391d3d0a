package progress

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/park285/healthquest-go/internal/heroquest/localstore"
)

// Hub 는 기기별 Engine 을 하나씩 유지한다. 원격 저장소는 모든 기기가 공유한다.
type Hub struct {
	stores *localstore.Registry
	repo   ProfileRepository
	logger *slog.Logger
	opts   []Option

	mu      sync.Mutex
	engines map[string]*Engine
}

// NewHub: 새로운 Hub 인스턴스를 생성한다.
func NewHub(stores *localstore.Registry, repo ProfileRepository, logger *slog.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		stores:  stores,
		repo:    repo,
		logger:  logger,
		opts:    opts,
		engines: make(map[string]*Engine),
	}
}

// Engine 은 device 의 Engine 을 반환한다. 없으면 만든다.
func (h *Hub) Engine(device string) *Engine {
	device = strings.TrimSpace(device)
	if device == "" {
		device = localstore.DefaultNamespace
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.engines[device]; ok {
		return e
	}
	opts := append([]Option{WithLogger(h.logger.With("device_id", device))}, h.opts...)
	e := New(h.stores.Store(device), h.repo, opts...)
	h.engines[device] = e
	return e
}
