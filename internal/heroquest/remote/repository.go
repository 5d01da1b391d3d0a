// Package remote 는 원격 관계형 저장소(hero_profiles, achievements, mission_progress)에 접근한다.
// 모든 호출은 실패할 수 있고, 실패는 Kind 로 분류된 *Error 로 돌아온다.
package remote

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DefaultTimeout 은 호출별 기본 타임아웃이다.
const DefaultTimeout = 5 * time.Second

// GormRepository: GORM 기반 원격 프로필 저장소
// 메서드들은 도메인별 파일로 분리됨:
//   - profile.go: 프로필 조회/생성/부분 갱신
//   - achievement.go: 배지 획득 로그
//   - mission.go: 미션 진행도 조회/업서트
type GormRepository struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

// Option: GormRepository 설정 함수
type Option func(*GormRepository)

// WithTimeout 은 호출별 타임아웃을 바꾼다.
func WithTimeout(d time.Duration) Option {
	return func(r *GormRepository) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithClock 은 created_at/updated_at 에 쓸 시계를 바꾼다.
func WithClock(now func() time.Time) Option {
	return func(r *GormRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewGormRepository: 새로운 GormRepository 인스턴스를 생성한다.
func NewGormRepository(db *gorm.DB, opts ...Option) *GormRepository {
	r := &GormRepository{db: db, timeout: DefaultTimeout, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AutoMigrate: 원격 테이블 스키마를 마이그레이션한다.
func (r *GormRepository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return errors.New("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&heroProfileRow{},
		&achievementRow{},
		&missionProgressRow{},
	); err != nil {
		return wrap("auto_migrate", err)
	}
	return nil
}

// Ping 은 헬스 체크용 연결 확인이다.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	ctx, cancel := r.callContext(ctx)
	defer cancel()
	return wrap("ping", sqlDB.PingContext(ctx))
}

func (r *GormRepository) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *GormRepository) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}
