// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"wordquest/database"

	"gorm.io/gorm"
)

// New returns a migrated sqlite database living in t.TempDir()
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "wordquest_test.db") + "?_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"
	db, err := database.Open("sqlite", dsn, "silent")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
