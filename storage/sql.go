package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/raykavin/tradepulse/core"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateRecord is the GORM row backing a single PersistedState snapshot.
type stateRecord struct {
	Key     string `gorm:"primaryKey"`
	Content string
}

// SQLStorage implements core.Storage on top of a GORM-backed SQL
// database, for hosts that already run a relational store instead of
// a dedicated embedded KV file.
type SQLStorage struct {
	db *gorm.DB
}

// Config holds connection-pool tuning for SQLStorage.
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sane connection-pool defaults.
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// NewFromSQLite opens (creating if absent) a SQLite-backed SQLStorage.
func NewFromSQLite(dbPath string, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	return newFromSQL(sqlite.Open(dbPath), config, opts...)
}

func newFromSQL(dialect gorm.Dialector, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.AutoMigrate(&stateRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// SaveState persists state under key, upserting any prior snapshot.
func (s *SQLStorage) SaveState(ctx context.Context, key string, state core.PersistedState) error {
	content, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal persisted state: %w", err)
	}

	record := stateRecord{Key: key, Content: string(content)}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"content"}),
		}).
		Create(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to save persisted state: %w", result.Error)
	}
	return nil
}

// LoadState retrieves a prior snapshot for key. The second return
// value is false when no snapshot exists yet, not an error.
func (s *SQLStorage) LoadState(ctx context.Context, key string) (core.PersistedState, bool, error) {
	var record stateRecord
	result := s.db.WithContext(ctx).First(&record, "key = ?", key)
	if result.Error == gorm.ErrRecordNotFound {
		return core.PersistedState{}, false, nil
	}
	if result.Error != nil {
		return core.PersistedState{}, false, fmt.Errorf("failed to read persisted state: %w", result.Error)
	}

	var state core.PersistedState
	if err := json.Unmarshal([]byte(record.Content), &state); err != nil {
		return core.PersistedState{}, false, fmt.Errorf("failed to unmarshal persisted state: %w", err)
	}
	return state, true, nil
}

// Close closes the underlying database connection.
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

var _ core.Storage = (*SQLStorage)(nil)
