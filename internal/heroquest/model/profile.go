// Package model 은 히어로 진행 상태 동기화에 쓰이는 도메인 타입을 정의한다.
package model

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// DateLayout 은 로컬 lastCheckIn 저장 형식이다. 스트릭 비교는 이 문자열 단위로 한다.
const DateLayout = "2006-01-02"

// legacyDateLayout 은 브라우저 Date.toDateString() 형식이다. 예: "Fri Oct 16 2026"
const legacyDateLayout = "Mon Jan 02 2006"

// LocalProfile 은 기기 로컬에 저장되는 히어로 프로필 블롭이다.
// 원격 병합 후에는 Badges/Points/Streak/LastCheckIn 도 함께 담긴다.
type LocalProfile struct {
	ID          string    `json:"id,omitempty"`
	HeroName    string    `json:"heroName"`
	Age         string    `json:"age"`
	Grade       string    `json:"grade,omitempty"`
	Interests   []string  `json:"interests"`
	HeroType    string    `json:"heroType,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Badges      []string  `json:"badges,omitempty"`
	Points      int       `json:"points,omitempty"`
	Streak      int       `json:"streak,omitempty"`
	LastCheckIn string    `json:"lastCheckIn,omitempty"`
}

// HeroProfile 은 원격 저장소의 프로필 레코드다. ID 는 원격에서 발급된다.
type HeroProfile struct {
	ID          string    `json:"id"`
	HeroName    string    `json:"heroName"`
	Age         string    `json:"age"`
	Grade       string    `json:"grade"`
	Interests   []string  `json:"interests"`
	Badges      []string  `json:"badges"`
	Points      int       `json:"points"`
	Streak      int       `json:"streak"`
	LastCheckIn time.Time `json:"lastCheckIn"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileUpdate 는 원격 프로필 부분 갱신 필드다. nil 필드는 변경하지 않는다.
type ProfileUpdate struct {
	Badges      []string
	Points      *int
	Streak      *int
	LastCheckIn *time.Time
}

// IsEmpty 는 바꿀 필드가 하나도 없는지 확인한다.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Badges == nil && u.Points == nil && u.Streak == nil && u.LastCheckIn == nil
}

// Achievement 는 배지 획득 로그 한 줄이다. 같은 배지가 여러 번 기록될 수 있다.
type Achievement struct {
	ID       string    `json:"id"`
	HeroID   string    `json:"heroId"`
	BadgeID  string    `json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
}

// NormalizeHeroName 은 원격 조회 키로 쓰는 히어로 이름을 정규화한다.
// 입력 기기마다 다른 유니코드 조합형이 같은 키가 되도록 NFC 로 맞춘다.
func NormalizeHeroName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// CheckInDate 는 저장된 lastCheckIn 값을 loc 기준 DateLayout 문자열로 바꾼다.
// 날짜 형식, 이전 브라우저 날짜 문자열, RFC3339 타임스탬프를 받아들이고 해석할 수 없으면 ok=false 다.
func CheckInDate(raw string, loc *time.Location) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return d.Format(DateLayout), true
	}
	if d, err := time.ParseInLocation(legacyDateLayout, raw, loc); err == nil {
		return d.Format(DateLayout), true
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts.In(loc).Format(DateLayout), true
	}
	return "", false
}

// DateOf 는 t 를 loc 기준 DateLayout 문자열로 바꾼다.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}
