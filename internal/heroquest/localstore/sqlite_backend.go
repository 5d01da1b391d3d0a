package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	cerrors "github.com/park285/healthquest-go/internal/common/errors"
)

// localEntry 는 로컬 키/값 한 건이다.
type localEntry struct {
	Namespace string    `gorm:"column:namespace;primaryKey;size:128"`
	Key       string    `gorm:"column:entry_key;primaryKey;size:128"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 는 테이블 이름을 반환한다.
func (localEntry) TableName() string { return "local_entries" }

// SQLiteBackend 는 단일 기기(임베디드) 배치용 파일 기반 로컬 저장소다.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLiteBackend 는 path 에 SQLite 파일을 열고 스키마를 준비한다.
// path 가 ":memory:" 면 파일을 만들지 않는다.
func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create local sqlite dir failed: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open local sqlite failed: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get local sqlite handle failed: %w", err)
	}
	// 단일 writer 로 두어 SQLITE_BUSY 를 피한다.
	sqlDB.SetMaxOpenConns(1)

	return NewSQLiteBackend(db)
}

// NewSQLiteBackend 는 이미 열린 gorm DB 위에 SQLiteBackend 를 만든다.
func NewSQLiteBackend(db *gorm.DB) (*SQLiteBackend, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := db.AutoMigrate(&localEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrate local_entries failed: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Name 은 드라이버 이름이다.
func (b *SQLiteBackend) Name() string { return DriverSQLite }

// Load 는 값을 읽는다.
func (b *SQLiteBackend) Load(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var entry localEntry
	err := b.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, cerrors.DatabaseError{Operation: "local_entries.load", Err: err}
	}
	return []byte(entry.Value), true, nil
}

// Save 는 (namespace, key) 기준 upsert 한다.
func (b *SQLiteBackend) Save(ctx context.Context, namespace, key string, value []byte) error {
	entry := localEntry{
		Namespace: namespace,
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return cerrors.DatabaseError{Operation: "local_entries.save", Err: err}
	}
	return nil
}

// Close 는 DB 핸들을 닫는다.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("get local sqlite handle failed: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close local sqlite failed: %w", err)
	}
	return nil
}
