package model

import (
	"fmt"
	"strings"
)

// Zone 은 미션 묶음 테마다.
type Zone string

// 지원하는 존
const (
	ZoneHydration   Zone = "hydration"
	ZoneNutrition   Zone = "nutrition"
	ZoneMovement    Zone = "movement"
	ZoneMindfulness Zone = "mindfulness"
	ZoneMystery     Zone = "mystery"
)

// Zones 는 표시 순서대로 나열한 전체 존 목록이다.
var Zones = []Zone{ZoneHydration, ZoneNutrition, ZoneMovement, ZoneMindfulness, ZoneMystery}

// ParseZone 은 대소문자와 공백을 무시하고 존 이름을 해석한다.
func ParseZone(raw string) (Zone, error) {
	z := Zone(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Zones {
		if z == known {
			return z, nil
		}
	}
	return "", fmt.Errorf("unknown zone %q", raw)
}

// ProgressKey 는 존 진행 마커의 로컬 저장 키다. (예: hydrationProgress)
func (z Zone) ProgressKey() string {
	return string(z) + "Progress"
}
