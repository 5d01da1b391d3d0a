package localstore

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/park285/healthquest-go/internal/heroquest/model"
)

// 키마다 decode 함수가 하나씩 있다. 해석할 수 없는 값은 "없음" 으로 취급하고 에러를 올리지 않는다.

func decodeProfile(raw []byte) (*model.LocalProfile, bool) {
	var p model.LocalProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	p.HeroName = strings.TrimSpace(p.HeroName)
	if p.HeroName == "" {
		return nil, false
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.Badges != nil {
		p.Badges = model.UniqueBadges(p.Badges)
	}
	return &p, true
}

func decodeBadges(raw []byte) []string {
	var badges []string
	if err := json.Unmarshal(raw, &badges); err != nil {
		return []string{}
	}
	return model.UniqueBadges(badges)
}

// decodeInt 는 JSON 숫자와, 따옴표로 감싼 숫자 문자열을 모두 받는다.
func decodeInt(raw []byte) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	return 0, false
}

func decodePoints(raw []byte) int {
	n, ok := decodeInt(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func decodeStreak(raw []byte) (int, bool) {
	n, ok := decodeInt(raw)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// decodeLastCheckIn 은 JSON 문자열을 기대하지만, 따옴표 없이 저장된 예전 값도 그대로 받는다.
func decodeLastCheckIn(raw []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
		if strings.ContainsAny(s, "{}[]\"") {
			return "", false
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

func decodeZoneProgress(raw []byte) int {
	n, ok := decodeInt(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}
