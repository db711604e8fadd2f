package testutil

import (
	"path/filepath"
	"testing"

	"pos-service/pkg/database"

	"gorm.io/gorm"
)

// SetupTestSQLite открывает чистую базу во временном каталоге теста.
func SetupTestSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &database.Config{Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
