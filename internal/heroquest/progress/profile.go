package progress

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/park285/healthquest-go/internal/heroquest/model"
	"github.com/park285/healthquest-go/internal/heroquest/remote"
)

// GetOrCreateProfile 은 로컬 프로필에 맞는 원격 프로필을 가져오거나 만든다.
//
// 원격에 있으면 배지/포인트/스트릭/체크인을 원격 값으로 덮어써 로컬에 병합하고 원격 레코드를 반환한다.
// 없으면 로컬 상태로 새 원격 레코드를 만들어 반환한다.
// 로컬 프로필이 없거나 원격 호출이 실패하면 nil 이며, 호출자는 로컬 상태만으로 계속 진행한다.
func (e *Engine) GetOrCreateProfile(ctx context.Context) *model.HeroProfile {
	ctx, span := e.startSpan(ctx, "GetOrCreateProfile")
	defer span.End()

	e.mu.Lock()
	local := e.local.ReadProfile(ctx)
	e.mu.Unlock()
	if local == nil {
		span.SetAttributes(attribute.Bool("local.profile", false))
		return nil
	}

	rp, err := e.repo.FindByHeroName(ctx, local.HeroName)
	switch {
	case err == nil:
		e.mergeRemote(ctx, local.HeroName, rp)
		e.logger.InfoContext(ctx, "profile_merged_from_remote", "hero_id", rp.ID, "badges", len(rp.Badges), "points", rp.Points)
		span.SetAttributes(attribute.String("hero.id", rp.ID), attribute.Bool("remote.created", false))
		return &rp
	case remote.IsNotFound(err):
	default:
		e.remoteFailed(ctx, span, "find_by_hero_name", err)
		return nil
	}

	seed := e.seedFromLocal(ctx, *local)
	inserted, err := e.repo.InsertProfile(ctx, seed)
	if err != nil {
		e.remoteFailed(ctx, span, "insert_profile", err)
		return nil
	}

	e.mu.Lock()
	if current := e.local.ReadProfile(ctx); current != nil && current.HeroName == local.HeroName {
		current.ID = inserted.ID
		e.local.WriteProfile(ctx, *current)
	}
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "profile_created_remote", "hero_id", inserted.ID, "badges", len(seed.Badges), "points", seed.Points, "streak", seed.Streak)
	span.SetAttributes(attribute.String("hero.id", inserted.ID), attribute.Bool("remote.created", true))
	return &inserted
}

// mergeRemote 는 원격 값을 로컬에 반영한다. 이름/나이/학년/관심사는 로컬 값을 유지한다.
func (e *Engine) mergeRemote(ctx context.Context, heroName string, rp model.HeroProfile) {
	badges := model.UniqueBadges(rp.Badges)
	points := max(rp.Points, 0)
	streak := rp.Streak
	if streak <= 0 {
		streak = 1
	}
	lastCheckIn := rp.LastCheckIn
	if lastCheckIn.IsZero() {
		lastCheckIn = e.now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.local.ReadProfile(ctx)
	if current == nil || current.HeroName != heroName {
		// 원격 조회 중에 로컬 프로필이 바뀌었다.
		return
	}
	merged := *current
	merged.ID = rp.ID
	merged.Badges = badges
	merged.Points = points
	merged.Streak = streak
	merged.LastCheckIn = lastCheckIn.In(e.loc).Format(time.RFC3339)

	e.local.WriteProfile(ctx, merged)
	e.local.WriteBadges(ctx, badges)
	e.local.WritePoints(ctx, points)
	e.local.WriteStreak(ctx, streak)
	e.local.WriteLastCheckIn(ctx, model.DateOf(lastCheckIn, e.loc))
}

// seedFromLocal 은 원격 신규 레코드의 초기값을 로컬 상태로 만든다.
func (e *Engine) seedFromLocal(ctx context.Context, local model.LocalProfile) model.HeroProfile {
	e.mu.Lock()
	defer e.mu.Unlock()

	streak, ok := e.local.ReadStreak(ctx)
	if !ok || streak < 1 {
		streak = 1
	}

	lastCheckIn := e.now()
	if raw, ok := e.local.ReadLastCheckIn(ctx); ok {
		if date, ok := model.CheckInDate(raw, e.loc); ok {
			if d, err := time.ParseInLocation(model.DateLayout, date, e.loc); err == nil {
				lastCheckIn = d
			}
		}
	}

	interests := local.Interests
	if interests == nil {
		interests = []string{}
	}

	return model.HeroProfile{
		HeroName:    local.HeroName,
		Age:         local.Age,
		Grade:       local.Grade,
		Interests:   interests,
		Badges:      e.local.ReadBadges(ctx),
		Points:      e.local.ReadPoints(ctx),
		Streak:      streak,
		LastCheckIn: lastCheckIn,
	}
}
