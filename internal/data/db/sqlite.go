package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

// NewSQLiteService opens a file-backed (or ":memory:") database for local runs.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	if path == "" {
		path = "howscary.db"
	}
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	serviceLog.Info("Opened sqlite database", "path", path)
	return &Service{db: db, log: serviceLog}, nil
}
