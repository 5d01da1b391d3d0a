package localstore

// 드라이버 이름
const (
	DriverMemory = "memory"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// 로컬 상태 키
const (
	KeyHeroProfile = "heroProfile"
	KeyBadges      = "badges"
	KeyPoints      = "points"
	KeyStreak      = "streak"
	KeyLastCheckIn = "lastCheckIn"
)
