package model

// Snapshot 은 화면 표시용 로컬 작업 사본이다.
type Snapshot struct {
	Profile      *LocalProfile `json:"profile"`
	Badges       []string      `json:"badges"`
	Points       int           `json:"points"`
	Streak       int           `json:"streak"`
	LastCheckIn  string        `json:"lastCheckIn,omitempty"`
	ZoneProgress map[Zone]int  `json:"zoneProgress"`
	Degraded     bool          `json:"degraded"`
}
