package remote

import (
	"context"
	"time"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// Disabled 는 원격 설정이 없을 때 쓰는 저장소다. 모든 호출이 KindNotConfigured 로 끝난다.
type Disabled struct{}

func notConfigured(op string) error {
	return &Error{Kind: KindNotConfigured, Op: op}
}

// FindByHeroName 은 항상 NotConfigured 다.
func (Disabled) FindByHeroName(context.Context, string) (model.HeroProfile, error) {
	return model.HeroProfile{}, notConfigured("find_by_hero_name")
}

// InsertProfile 은 항상 NotConfigured 다.
func (Disabled) InsertProfile(context.Context, model.HeroProfile) (model.HeroProfile, error) {
	return model.HeroProfile{}, notConfigured("insert_profile")
}

// UpdateProfile 은 항상 NotConfigured 다.
func (Disabled) UpdateProfile(context.Context, string, model.ProfileUpdate) error {
	return notConfigured("update_profile")
}

// InsertAchievement 는 항상 NotConfigured 다.
func (Disabled) InsertAchievement(context.Context, string, string, time.Time) error {
	return notConfigured("insert_achievement")
}

// ListAchievements 는 항상 NotConfigured 다.
func (Disabled) ListAchievements(context.Context, string) ([]model.Achievement, error) {
	return nil, notConfigured("list_achievements")
}

// FindMissionProgress 는 항상 NotConfigured 다.
func (Disabled) FindMissionProgress(context.Context, model.MissionKey) (model.MissionProgress, error) {
	return model.MissionProgress{}, notConfigured("find_mission_progress")
}

// UpsertMissionProgress 는 항상 NotConfigured 다.
func (Disabled) UpsertMissionProgress(context.Context, model.MissionProgress) error {
	return notConfigured("upsert_mission_progress")
}

// ListMissionProgress 는 항상 NotConfigured 다.
func (Disabled) ListMissionProgress(context.Context, string) ([]model.MissionProgress, error) {
	return nil, notConfigured("list_mission_progress")
}
