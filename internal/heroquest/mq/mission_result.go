package mq

import (
	"strconv"
	"strings"

	cerrors "github.com/park285/healthquest-go/internal/common/errors"
)

// 스트림 엔트리 필드
const (
	FieldDevice      = "device"
	FieldBadgeID     = "badgeId"
	FieldPoints      = "points"
	FieldMissionType = "missionType"
	FieldMissionName = "missionName"
	FieldScore       = "score"
	FieldCompleted   = "completed"
)

// MissionResult: 미션 결과 스트림 엔트리 하나
type MissionResult struct {
	Device      string
	BadgeID     string
	Points      int
	MissionType string
	MissionName string
	Score       int
	Completed   bool
}

// HasBadge 는 배지 지급이 포함되어 있는지 확인한다.
func (r MissionResult) HasBadge() bool { return r.BadgeID != "" }

// HasMission 은 미션 진행도 기록이 포함되어 있는지 확인한다.
func (r MissionResult) HasMission() bool { return r.MissionType != "" }

// ParseMissionResult: 엔트리 필드를 MissionResult 로 변환합니다.
// 배지와 미션이 모두 없거나 숫자/불리언 필드가 깨져 있으면 ValidationError 를 반환합니다.
func ParseMissionResult(values map[string]string) (MissionResult, error) {
	r := MissionResult{
		Device:      strings.TrimSpace(values[FieldDevice]),
		BadgeID:     strings.TrimSpace(values[FieldBadgeID]),
		MissionType: strings.TrimSpace(values[FieldMissionType]),
		MissionName: strings.TrimSpace(values[FieldMissionName]),
	}

	if (r.MissionType == "") != (r.MissionName == "") {
		return MissionResult{}, cerrors.ValidationError{Field: FieldMissionName, Message: "missionType and missionName must be set together"}
	}
	if !r.HasBadge() && !r.HasMission() {
		return MissionResult{}, cerrors.ValidationError{Message: "entry carries neither badgeId nor mission"}
	}

	var err error
	if r.Points, err = intField(values, FieldPoints); err != nil {
		return MissionResult{}, err
	}
	if r.Score, err = intField(values, FieldScore); err != nil {
		return MissionResult{}, err
	}
	if raw := strings.TrimSpace(values[FieldCompleted]); raw != "" {
		r.Completed, err = strconv.ParseBool(raw)
		if err != nil {
			return MissionResult{}, cerrors.ValidationError{Field: FieldCompleted, Message: strconv.Quote(raw)}
		}
	}
	return r, nil
}

func intField(values map[string]string, field string) (int, error) {
	raw := strings.TrimSpace(values[field])
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cerrors.ValidationError{Field: field, Message: strconv.Quote(raw)}
	}
	return n, nil
}
