package repos

import (
	"path/filepath"
	"testing"

	"workdesk/internal/database"
	"workdesk/internal/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens a fresh sqlite database in a per-test temp dir and migrates
// the full schema, so repo tests exercise real SQL and transactions.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func testLog() *logger.Logger {
	return logger.NewNop()
}
