// Package localstore 는 기기 로컬 히어로 상태(프로필, 배지, 포인트, 스트릭, 존 진행도)를 읽고 쓴다.
// 원격 저장소를 쓸 수 없을 때 유일한 기준 데이터다.
package localstore

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// Store 는 한 기기(namespace)의 로컬 상태 저장소다.
// 읽기는 없거나 깨진 값을 기본값으로 돌려주고, 쓰기는 에러를 반환하지 않는다.
// Backend 가 한 번이라도 실패하면 그 세션 동안은 메모리 저장소로 전환한다.
type Store struct {
	backend   Backend
	fallback  *MemoryBackend
	namespace string
	logger    *slog.Logger

	degraded    atomic.Bool
	degradeOnce sync.Once
}

// New 는 backend 위에 namespace 전용 Store 를 만든다. backend 가 nil 이면 메모리만 쓴다.
func New(backend Backend, namespace string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{
		backend:   backend,
		fallback:  NewMemoryBackend(),
		namespace: namespace,
		logger:    logger,
	}
}

// Namespace 는 이 Store 의 기기 식별자다.
func (s *Store) Namespace() string { return s.namespace }

// Degraded 는 메모리 대체 저장소로 전환되었는지 여부다.
func (s *Store) Degraded() bool { return s.degraded.Load() }

func (s *Store) degrade(ctx context.Context, op string, err error) {
	s.degradeOnce.Do(func() {
		s.degraded.Store(true)
		s.logger.WarnContext(ctx, "local_store_unavailable",
			"driver", s.backend.Name(),
			"namespace", s.namespace,
			"op", op,
			"err", err,
		)
	})
}

// backendContext 는 호출자 취소와 분리된 ctx 다. 호출자 취소는 저장소 장애가 아니다.
// 시간 제한은 Backend 가 건다.
func backendContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Store) load(ctx context.Context, key string) ([]byte, bool) {
	if !s.degraded.Load() {
		raw, ok, err := s.backend.Load(backendContext(ctx), s.namespace, key)
		if err == nil {
			return raw, ok
		}
		s.degrade(ctx, "load:"+key, err)
	}
	raw, ok, _ := s.fallback.Load(ctx, s.namespace, key)
	return raw, ok
}

func (s *Store) save(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "local_value_encode_failed", "key", key, "err", err)
		return
	}
	if !s.degraded.Load() {
		err := s.backend.Save(backendContext(ctx), s.namespace, key, raw)
		if err == nil {
			return
		}
		s.degrade(ctx, "save:"+key, err)
	}
	_ = s.fallback.Save(ctx, s.namespace, key, raw)
}

// ReadProfile 은 로컬 프로필을 읽는다. 없거나 깨졌거나 heroName 이 비어 있으면 nil 이다.
func (s *Store) ReadProfile(ctx context.Context) *model.LocalProfile {
	raw, ok := s.load(ctx, KeyHeroProfile)
	if !ok {
		return nil
	}
	p, ok := decodeProfile(raw)
	if !ok {
		return nil
	}
	return p
}

// WriteProfile 은 로컬 프로필을 저장한다.
func (s *Store) WriteProfile(ctx context.Context, profile model.LocalProfile) {
	s.save(ctx, KeyHeroProfile, profile)
}

// ReadBadges 는 배지 목록을 읽는다. 기본값은 빈 목록이다.
func (s *Store) ReadBadges(ctx context.Context) []string {
	raw, ok := s.load(ctx, KeyBadges)
	if !ok {
		return []string{}
	}
	return decodeBadges(raw)
}

// WriteBadges 는 중복을 제거한 배지 목록을 저장한다.
func (s *Store) WriteBadges(ctx context.Context, badges []string) {
	s.save(ctx, KeyBadges, model.UniqueBadges(badges))
}

// ReadPoints 는 포인트를 읽는다. 기본값은 0 이다.
func (s *Store) ReadPoints(ctx context.Context) int {
	raw, ok := s.load(ctx, KeyPoints)
	if !ok {
		return 0
	}
	return decodePoints(raw)
}

// WritePoints 는 포인트를 저장한다. 음수는 0 으로 저장한다.
func (s *Store) WritePoints(ctx context.Context, points int) {
	s.save(ctx, KeyPoints, max(points, 0))
}

// ReadStreak 은 스트릭을 읽는다. 저장된 값이 없으면 ok=false 다.
func (s *Store) ReadStreak(ctx context.Context) (int, bool) {
	raw, ok := s.load(ctx, KeyStreak)
	if !ok {
		return 0, false
	}
	return decodeStreak(raw)
}

// WriteStreak 은 스트릭을 저장한다.
func (s *Store) WriteStreak(ctx context.Context, streak int) {
	s.save(ctx, KeyStreak, max(streak, 0))
}

// ReadLastCheckIn 은 마지막 체크인 값을 읽는다.
func (s *Store) ReadLastCheckIn(ctx context.Context) (string, bool) {
	raw, ok := s.load(ctx, KeyLastCheckIn)
	if !ok {
		return "", false
	}
	return decodeLastCheckIn(raw)
}

// WriteLastCheckIn 은 마지막 체크인 값을 저장한다.
func (s *Store) WriteLastCheckIn(ctx context.Context, date string) {
	s.save(ctx, KeyLastCheckIn, date)
}

// ReadZoneProgress 는 존 진행 마커를 읽는다. 기본값은 0 이다.
func (s *Store) ReadZoneProgress(ctx context.Context, zone model.Zone) int {
	raw, ok := s.load(ctx, zone.ProgressKey())
	if !ok {
		return 0
	}
	return decodeZoneProgress(raw)
}

// WriteZoneProgress 는 존 진행 마커를 저장한다.
func (s *Store) WriteZoneProgress(ctx context.Context, zone model.Zone, value int) {
	s.save(ctx, zone.ProgressKey(), max(value, 0))
}
