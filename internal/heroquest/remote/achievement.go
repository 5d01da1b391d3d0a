package remote

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// InsertAchievement 는 배지 획득 로그를 한 줄 추가한다. 같은 배지가 여러 번 기록될 수 있다.
func (r *GormRepository) InsertAchievement(ctx context.Context, heroID, badgeID string, earnedAt time.Time) error {
	const op = "insert_achievement"

	row := achievementRow{
		ID:       uuid.NewString(),
		HeroID:   heroID,
		BadgeID:  badgeID,
		EarnedAt: earnedAt,
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	if err := r.session(ctx).Create(&row).Error; err != nil {
		return wrap(op, err)
	}
	return nil
}

// ListAchievements 는 히어로의 획득 로그를 시간순으로 반환한다.
func (r *GormRepository) ListAchievements(ctx context.Context, heroID string) ([]model.Achievement, error) {
	const op = "list_achievements"

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var rows []achievementRow
	if err := r.session(ctx).Where("hero_id = ?", heroID).Order("earned_at ASC").Find(&rows).Error; err != nil {
		return nil, wrap(op, err)
	}

	out := make([]model.Achievement, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Achievement{
			ID:       row.ID,
			HeroID:   row.HeroID,
			BadgeID:  row.BadgeID,
			EarnedAt: row.EarnedAt,
		})
	}
	return out, nil
}
