package progress

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/park285/healthquest-go/internal/common/ptr"
	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// AwardBadge 는 배지를 지급하고 points 를 더한다.
//
// 로컬에 이미 있는 배지면 아무것도 바꾸지 않고 원격 쓰기도 하지 않는다.
// 새 배지면 로컬 배지/포인트를 먼저 저장한 뒤, 원격 프로필에 같은 규칙으로 배지를 추가하고
// 원격 포인트를 원격값 + points 로 올리며 획득 로그를 남긴다.
// 반환값은 원격 반영 여부이며 참고용이다.
func (e *Engine) AwardBadge(ctx context.Context, badgeID string, points int) bool {
	badgeID = strings.TrimSpace(badgeID)
	points = max(points, 0)

	ctx, span := e.startSpan(ctx, "AwardBadge",
		attribute.String("badge.id", badgeID),
		attribute.Int("badge.points", points),
	)
	defer span.End()

	if badgeID == "" {
		return false
	}

	e.mu.Lock()
	badges, added := model.AddBadge(e.local.ReadBadges(ctx), badgeID)
	if !added {
		e.mu.Unlock()
		e.logger.DebugContext(ctx, "badge_already_awarded", "badge_id", badgeID)
		span.SetAttributes(attribute.Bool("badge.new", false))
		return false
	}
	total := e.local.ReadPoints(ctx) + points
	e.local.WriteBadges(ctx, badges)
	e.local.WritePoints(ctx, total)

	profile := e.local.ReadProfile(ctx)
	if profile != nil {
		profile.Badges = badges
		profile.Points = total
		e.local.WriteProfile(ctx, *profile)
	}
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "badge_awarded", "badge_id", badgeID, "points", points, "total_points", total)
	span.SetAttributes(attribute.Bool("badge.new", true))

	if profile == nil {
		return false
	}
	synced := e.pushBadge(ctx, span, profile.HeroName, badgeID, points)
	span.SetAttributes(attribute.Bool("remote.synced", synced))
	return synced
}

func (e *Engine) pushBadge(ctx context.Context, span trace.Span, heroName, badgeID string, points int) bool {
	rp, ok := e.findRemote(ctx, span, heroName)
	if !ok {
		return false
	}

	badges, added := model.AddBadge(rp.Badges, badgeID)
	if !added {
		// 다른 기기에서 이미 반영됨
		return true
	}

	if err := e.repo.UpdateProfile(ctx, rp.ID, model.ProfileUpdate{
		Badges: badges,
		Points: ptr.Int(max(rp.Points, 0) + points),
	}); err != nil {
		e.remoteFailed(ctx, span, "update_profile", err)
		return false
	}

	if err := e.repo.InsertAchievement(ctx, rp.ID, badgeID, e.now()); err != nil {
		// 획득 로그 실패는 동기화 결과에 영향을 주지 않는다.
		e.remoteFailed(ctx, span, "insert_achievement", err)
	}
	return true
}

// ListAchievements 는 현재 히어로의 원격 배지 획득 로그를 시간순으로 반환한다.
// 로컬/원격 프로필이 없거나 실패하면 빈 목록이다.
func (e *Engine) ListAchievements(ctx context.Context) []model.Achievement {
	ctx, span := e.startSpan(ctx, "ListAchievements")
	defer span.End()

	e.mu.Lock()
	profile := e.local.ReadProfile(ctx)
	e.mu.Unlock()
	if profile == nil {
		return []model.Achievement{}
	}

	rp, ok := e.findRemote(ctx, span, profile.HeroName)
	if !ok {
		return []model.Achievement{}
	}

	list, err := e.repo.ListAchievements(ctx, rp.ID)
	if err != nil {
		e.remoteFailed(ctx, span, "list_achievements", err)
		return []model.Achievement{}
	}
	if list == nil {
		return []model.Achievement{}
	}
	span.SetAttributes(attribute.Int("achievements", len(list)))
	return list
}
