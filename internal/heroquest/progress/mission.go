package progress

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/park285/healthquest-go/internal/heroquest/model"
	"github.com/park285/healthquest-go/internal/heroquest/remote"
)

// RecordMissionProgress 는 미션 결과를 원격 미션 진행도에 반영한다.
//
// 로컬 프로필과 원격 프로필이 모두 있어야 하며, 이 연산은 프로필을 만들지 않는다.
// 기존 레코드는 점수가 오르거나 새로 완료되었을 때만 갱신되고, 점수는 최댓값, 완료는 OR 로 합쳐진다.
// 로컬 상태는 바꾸지 않는다. 반환값은 원격 상태가 이번 보고를 반영하고 있는지 여부다.
func (e *Engine) RecordMissionProgress(ctx context.Context, missionType, missionName string, score int, completed bool) bool {
	missionType = strings.TrimSpace(missionType)
	missionName = strings.TrimSpace(missionName)
	score = max(score, 0)

	ctx, span := e.startSpan(ctx, "RecordMissionProgress",
		attribute.String("mission.type", missionType),
		attribute.String("mission.name", missionName),
		attribute.Int("mission.score", score),
		attribute.Bool("mission.completed", completed),
	)
	defer span.End()

	if missionType == "" || missionName == "" {
		return false
	}

	e.mu.Lock()
	profile := e.local.ReadProfile(ctx)
	e.mu.Unlock()
	if profile == nil {
		return false
	}

	rp, ok := e.findRemote(ctx, span, profile.HeroName)
	if !ok {
		return false
	}

	key := model.MissionKey{HeroID: rp.ID, MissionType: missionType, MissionName: missionName}
	existing, err := e.repo.FindMissionProgress(ctx, key)
	switch {
	case err == nil:
		merged, changed := existing.Merge(score, completed)
		if !changed {
			span.SetAttributes(attribute.Bool("mission.changed", false))
			return true
		}
		if err := e.repo.UpsertMissionProgress(ctx, merged); err != nil {
			e.remoteFailed(ctx, span, "upsert_mission_progress", err)
			return false
		}
		e.logger.InfoContext(ctx, "mission_progress_improved",
			"mission_type", missionType, "mission_name", missionName,
			"score", merged.Score, "previous_score", existing.Score, "completed", merged.Completed)
	case remote.IsNotFound(err):
		if err := e.repo.UpsertMissionProgress(ctx, model.MissionProgress{
			HeroID:      rp.ID,
			MissionType: missionType,
			MissionName: missionName,
			Score:       score,
			Completed:   completed,
		}); err != nil {
			e.remoteFailed(ctx, span, "upsert_mission_progress", err)
			return false
		}
		e.logger.InfoContext(ctx, "mission_progress_created",
			"mission_type", missionType, "mission_name", missionName, "score", score, "completed", completed)
	default:
		e.remoteFailed(ctx, span, "find_mission_progress", err)
		return false
	}

	span.SetAttributes(attribute.Bool("mission.changed", true))
	return true
}

// ListMissionProgress 는 현재 히어로의 원격 미션 진행도를 모두 반환한다.
// 로컬/원격 프로필이 없거나 실패하면 빈 목록이다.
func (e *Engine) ListMissionProgress(ctx context.Context) []model.MissionProgress {
	ctx, span := e.startSpan(ctx, "ListMissionProgress")
	defer span.End()

	e.mu.Lock()
	profile := e.local.ReadProfile(ctx)
	e.mu.Unlock()
	if profile == nil {
		return []model.MissionProgress{}
	}

	rp, ok := e.findRemote(ctx, span, profile.HeroName)
	if !ok {
		return []model.MissionProgress{}
	}

	list, err := e.repo.ListMissionProgress(ctx, rp.ID)
	if err != nil {
		e.remoteFailed(ctx, span, "list_mission_progress", err)
		return []model.MissionProgress{}
	}
	if list == nil {
		return []model.MissionProgress{}
	}
	return list
}
