package remote

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// FindMissionProgress 는 복합 키로 미션 진행도를 찾는다.
func (r *GormRepository) FindMissionProgress(ctx context.Context, key model.MissionKey) (model.MissionProgress, error) {
	const op = "find_mission_progress"

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var row missionProgressRow
	err := r.session(ctx).
		Where("hero_id = ? AND mission_type = ? AND mission_name = ?", key.HeroID, key.MissionType, key.MissionName).
		Take(&row).Error
	if err != nil {
		return model.MissionProgress{}, wrap(op, err)
	}
	return missionFromRow(row), nil
}

// UpsertMissionProgress 는 복합 키 기준으로 삽입하거나 갱신한다.
// 충돌 시에도 score 는 최댓값, completed 는 OR 로만 반영되어 저장값이 후퇴하지 않는다.
func (r *GormRepository) UpsertMissionProgress(ctx context.Context, p model.MissionProgress) error {
	const op = "upsert_mission_progress"

	now := r.now()
	row := missionProgressRow{
		ID:          uuid.NewString(),
		HeroID:      p.HeroID,
		MissionType: p.MissionType,
		MissionName: p.MissionName,
		Score:       p.Score,
		Completed:   p.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	err := r.session(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hero_id"}, {Name: "mission_type"}, {Name: "mission_name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score": gorm.Expr(
				"CASE WHEN excluded.score > \"mission_progress\".\"score\" THEN excluded.score ELSE \"mission_progress\".\"score\" END"),
			"completed":  gorm.Expr("\"mission_progress\".\"completed\" OR excluded.completed"),
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

// ListMissionProgress 는 히어로의 모든 미션 진행도를 반환한다.
func (r *GormRepository) ListMissionProgress(ctx context.Context, heroID string) ([]model.MissionProgress, error) {
	const op = "list_mission_progress"

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	var rows []missionProgressRow
	err := r.session(ctx).
		Where("hero_id = ?", heroID).
		Order("mission_type ASC, mission_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap(op, err)
	}

	out := make([]model.MissionProgress, 0, len(rows))
	for _, row := range rows {
		out = append(out, missionFromRow(row))
	}
	return out, nil
}
