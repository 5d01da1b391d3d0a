// Package progress 는 로컬 히어로 상태와 원격 프로필 저장소를 맞추는 동기화 엔진이다.
//
// 모든 연산은 로컬 상태를 먼저 갱신한 뒤 원격 반영을 시도한다. 원격 실패는 로그로만 남고
// 호출자에게는 항상 정의된 값(프로필/nil, bool, int)이 돌아간다.
package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/park285/healthquest-go/internal/heroquest/model"
	"github.com/park285/healthquest-go/internal/heroquest/remote"
)

const tracerName = "healthquest-go/progress"

// LocalState 는 엔진이 쓰는 기기 로컬 저장소다. 읽기는 실패하지 않고 기본값을 돌려준다.
type LocalState interface {
	ReadProfile(ctx context.Context) *model.LocalProfile
	WriteProfile(ctx context.Context, profile model.LocalProfile)
	ReadBadges(ctx context.Context) []string
	WriteBadges(ctx context.Context, badges []string)
	ReadPoints(ctx context.Context) int
	WritePoints(ctx context.Context, points int)
	ReadStreak(ctx context.Context) (int, bool)
	WriteStreak(ctx context.Context, streak int)
	ReadLastCheckIn(ctx context.Context) (string, bool)
	WriteLastCheckIn(ctx context.Context, date string)
	ReadZoneProgress(ctx context.Context, zone model.Zone) int
	WriteZoneProgress(ctx context.Context, zone model.Zone, value int)
	Degraded() bool
}

// ProfileRepository 는 원격 프로필 저장소 계약이다.
// 실패는 remote.Kind 로 분류 가능한 에러로 돌아와야 한다. 레코드 없음은 remote.KindNotFound 다.
type ProfileRepository interface {
	FindByHeroName(ctx context.Context, heroName string) (model.HeroProfile, error)
	InsertProfile(ctx context.Context, profile model.HeroProfile) (model.HeroProfile, error)
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) error
	InsertAchievement(ctx context.Context, heroID, badgeID string, earnedAt time.Time) error
	ListAchievements(ctx context.Context, heroID string) ([]model.Achievement, error)
	FindMissionProgress(ctx context.Context, key model.MissionKey) (model.MissionProgress, error)
	UpsertMissionProgress(ctx context.Context, progress model.MissionProgress) error
	ListMissionProgress(ctx context.Context, heroID string) ([]model.MissionProgress, error)
}

// Engine 은 한 기기의 진행 상태 동기화 엔진이다.
// 로컬 read-modify-write 구간은 mu 로 직렬화하고, 원격 구간은 잠금 밖에서 수행한다.
// 원격 쓰기는 경합 시 마지막 쓰기가 남는다.
type Engine struct {
	local  LocalState
	repo   ProfileRepository
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
	tracer trace.Tracer

	mu sync.Mutex
}

// Option: Engine 설정 함수
type Option func(*Engine)

// WithLogger 는 로거를 지정한다.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock 은 현재 시각 함수를 지정한다.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation 은 스트릭 날짜 비교에 쓰는 시간대를 지정한다.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New: 새로운 Engine 인스턴스를 생성한다. repo 가 nil 이면 원격 미설정으로 동작한다.
func New(local LocalState, repo ProfileRepository, opts ...Option) *Engine {
	if repo == nil {
		repo = remote.Disabled{}
	}
	e := &Engine{
		local:  local,
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
		loc:    time.Local,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "Progress."+name, trace.WithAttributes(attrs...))
}

func (e *Engine) today() string {
	return model.DateOf(e.now(), e.loc)
}

// remoteFailed 는 삼킨 원격 실패를 기록한다. 미설정은 매 호출마다 나오므로 Debug 로 낮춘다.
func (e *Engine) remoteFailed(ctx context.Context, span trace.Span, op string, err error) {
	kind := remote.KindOf(err)
	span.SetAttributes(attribute.String("remote.error_kind", string(kind)))
	if kind == remote.KindNotConfigured {
		e.logger.DebugContext(ctx, "remote_not_configured", "op", op)
		return
	}
	span.RecordError(err)
	e.logger.WarnContext(ctx, "remote_call_failed", "op", op, "kind", kind, "err", err)
}

// findRemote 는 로컬 프로필 이름으로 원격 프로필을 찾는다. 실패 로그는 NotFound 가 아닐 때만 남긴다.
func (e *Engine) findRemote(ctx context.Context, span trace.Span, heroName string) (model.HeroProfile, bool) {
	rp, err := e.repo.FindByHeroName(ctx, heroName)
	if err != nil {
		if !remote.IsNotFound(err) {
			e.remoteFailed(ctx, span, "find_by_hero_name", err)
		}
		return model.HeroProfile{}, false
	}
	return rp, true
}
