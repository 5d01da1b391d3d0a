package progress

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/park285/healthquest-go/internal/common/ptr"
	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// UpdateStreak 은 오늘 첫 방문이면 스트릭을 1 올리고 오늘 날짜를 기록한다.
// 같은 날 다시 부르면 저장된 값을 그대로 돌려준다.
//
// 날짜 비교는 설정된 시간대의 달력 날짜 문자열 단위다. 방문 사이에 빈 날이 있어도 초기화하지 않는다.
// 원격 프로필이 있으면 분기와 상관없이 스트릭과 현재 시각을 반영한다. 원격 스트릭은 줄어들지 않는다.
func (e *Engine) UpdateStreak(ctx context.Context) int {
	ctx, span := e.startSpan(ctx, "UpdateStreak")
	defer span.End()

	today := e.today()

	e.mu.Lock()
	streak, _ := e.local.ReadStreak(ctx)
	last, hasLast := e.local.ReadLastCheckIn(ctx)
	lastDate, _ := model.CheckInDate(last, e.loc)

	newDay := !hasLast || lastDate != today
	if newDay {
		streak++
		e.local.WriteStreak(ctx, streak)
		e.local.WriteLastCheckIn(ctx, today)
	}
	profile := e.local.ReadProfile(ctx)
	e.mu.Unlock()

	span.SetAttributes(attribute.Int("streak", streak), attribute.Bool("streak.new_day", newDay))
	if newDay {
		e.logger.InfoContext(ctx, "streak_incremented", "streak", streak, "date", today)
	}

	if profile != nil {
		synced := e.pushStreak(ctx, profile.HeroName, streak)
		span.SetAttributes(attribute.Bool("remote.synced", synced))
	}
	return streak
}

func (e *Engine) pushStreak(ctx context.Context, heroName string, streak int) bool {
	ctx, span := e.startSpan(ctx, "PushStreak")
	defer span.End()

	rp, ok := e.findRemote(ctx, span, heroName)
	if !ok {
		return false
	}

	if err := e.repo.UpdateProfile(ctx, rp.ID, model.ProfileUpdate{
		Streak:      ptr.Int(max(streak, rp.Streak)),
		LastCheckIn: ptr.Of(e.now()),
	}); err != nil {
		e.remoteFailed(ctx, span, "update_profile", err)
		return false
	}
	return true
}
