package progress

import (
	"context"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// Snapshot 은 표시용 로컬 작업 사본을 읽는다. 저장소를 바꾸지 않는다.
func (e *Engine) Snapshot(ctx context.Context) model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := model.Snapshot{
		Profile:      e.local.ReadProfile(ctx),
		Badges:       e.local.ReadBadges(ctx),
		Points:       e.local.ReadPoints(ctx),
		ZoneProgress: make(map[model.Zone]int, len(model.Zones)),
		Degraded:     e.local.Degraded(),
	}
	if streak, ok := e.local.ReadStreak(ctx); ok {
		snap.Streak = streak
	}
	if last, ok := e.local.ReadLastCheckIn(ctx); ok {
		snap.LastCheckIn = last
	}
	for _, z := range model.Zones {
		snap.ZoneProgress[z] = e.local.ReadZoneProgress(ctx, z)
	}
	return snap
}

// SaveProfile 은 UI 의 프로필 생성 단계를 대신해 로컬 프로필을 저장한다.
// 이미 원격과 연결된 같은 이름의 프로필이면 원격 ID 와 동기화 필드를 유지한다.
func (e *Engine) SaveProfile(ctx context.Context, profile model.LocalProfile) model.LocalProfile {
	e.mu.Lock()
	defer e.mu.Unlock()

	if current := e.local.ReadProfile(ctx); current != nil && current.HeroName == profile.HeroName {
		profile.ID = current.ID
		profile.Badges = current.Badges
		profile.Points = current.Points
		profile.Streak = current.Streak
		profile.LastCheckIn = current.LastCheckIn
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = current.CreatedAt
		}
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = e.now()
	}
	if profile.Interests == nil {
		profile.Interests = []string{}
	}
	e.local.WriteProfile(ctx, profile)
	e.logger.InfoContext(ctx, "local_profile_saved", "hero_name", profile.HeroName)
	return profile
}

// AdvanceZone 은 존 진행 마커를 step 만큼 올리고 새 값을 반환한다. step 이 1 보다 작으면 1 이다.
func (e *Engine) AdvanceZone(ctx context.Context, zone model.Zone, step int) int {
	if step < 1 {
		step = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.local.ReadZoneProgress(ctx, zone) + step
	e.local.WriteZoneProgress(ctx, zone, next)
	return next
}
