package remote

import (
	"time"

	"gorm.io/datatypes"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// heroProfileRow: hero_profiles 테이블 레코드
type heroProfileRow struct {
	ID          string                      `gorm:"column:id;primaryKey;size:36"`
	HeroName    string                      `gorm:"column:hero_name;not null;index"`
	Age         string                      `gorm:"column:age;not null;default:''"`
	Grade       string                      `gorm:"column:grade;not null;default:''"`
	Interests   datatypes.JSONSlice[string] `gorm:"column:interests"`
	Badges      datatypes.JSONSlice[string] `gorm:"column:badges"`
	Points      int                         `gorm:"column:points;not null;default:0"`
	Streak      int                         `gorm:"column:streak;not null;default:1"`
	LastCheckIn time.Time                   `gorm:"column:last_check_in;not null"`
	CreatedAt   time.Time                   `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;not null"`
}

func (heroProfileRow) TableName() string { return "hero_profiles" }

// achievementRow: 배지 획득 로그 (append-only)
type achievementRow struct {
	ID       string    `gorm:"column:id;primaryKey;size:36"`
	HeroID   string    `gorm:"column:hero_id;not null;size:36;index"`
	BadgeID  string    `gorm:"column:badge_id;not null"`
	EarnedAt time.Time `gorm:"column:earned_at;not null"`
}

func (achievementRow) TableName() string { return "achievements" }

// missionProgressRow: 미션 진행도
// 유니크 인덱스: idx_mission_progress_key (hero_id, mission_type, mission_name)
type missionProgressRow struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	HeroID      string    `gorm:"column:hero_id;not null;size:36;uniqueIndex:idx_mission_progress_key,priority:1"`
	MissionType string    `gorm:"column:mission_type;not null;uniqueIndex:idx_mission_progress_key,priority:2"`
	MissionName string    `gorm:"column:mission_name;not null;uniqueIndex:idx_mission_progress_key,priority:3"`
	Score       int       `gorm:"column:score;not null;default:0"`
	Completed   bool      `gorm:"column:completed;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (missionProgressRow) TableName() string { return "mission_progress" }

func profileFromRow(r heroProfileRow) model.HeroProfile {
	return model.HeroProfile{
		ID:          r.ID,
		HeroName:    r.HeroName,
		Age:         r.Age,
		Grade:       r.Grade,
		Interests:   nonNil([]string(r.Interests)),
		Badges:      model.UniqueBadges(r.Badges),
		Points:      r.Points,
		Streak:      r.Streak,
		LastCheckIn: r.LastCheckIn,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func missionFromRow(r missionProgressRow) model.MissionProgress {
	return model.MissionProgress{
		ID:          r.ID,
		HeroID:      r.HeroID,
		MissionType: r.MissionType,
		MissionName: r.MissionName,
		Score:       r.Score,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
