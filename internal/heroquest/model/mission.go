package model

import "time"

// MissionKey 는 미션 진행 레코드의 복합 키다.
type MissionKey struct {
	HeroID      string
	MissionType string
	MissionName string
}

// MissionProgress 는 (히어로, 미션 종류, 미션 이름) 단위 최고 점수와 완료 여부다.
type MissionProgress struct {
	ID          string    `json:"id"`
	HeroID      string    `json:"heroId"`
	MissionType string    `json:"missionType"`
	MissionName string    `json:"missionName"`
	Score       int       `json:"score"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Key 는 레코드의 복합 키를 반환한다.
func (p MissionProgress) Key() MissionKey {
	return MissionKey{HeroID: p.HeroID, MissionType: p.MissionType, MissionName: p.MissionName}
}

// Merge 는 새 보고를 반영한 값을 계산한다. 점수는 최댓값, 완료는 OR 이다.
// 저장된 값보다 점수가 높거나 새로 완료된 경우에만 changed 가 true 다.
func (p MissionProgress) Merge(score int, completed bool) (MissionProgress, bool) {
	changed := score > p.Score || (completed && !p.Completed)
	if !changed {
		return p, false
	}
	merged := p
	merged.Score = max(p.Score, score)
	merged.Completed = p.Completed || completed
	return merged, true
}
