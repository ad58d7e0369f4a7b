package testutil

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/kendall-kelly/printshop-orders/config"
	"github.com/kendall-kelly/printshop-orders/logger"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CheckTestEnvironment guards TestMain against running with a non-test
// environment, which could point at a real database. It returns a non-zero
// exit code, with a message on stderr, when GO_ENV is not "test".
func CheckTestEnvironment() int {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "SAFETY CHECK FAILED: tests must run with GO_ENV=test (current: %q)\n", env)
		return 1
	}
	return 0
}

// NewTestDB opens a private in-memory SQLite database with foreign keys on
// and the full schema migrated. The pool is pinned to one connection because
// every new SQLite memory connection would otherwise see an empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// NewTestLogger returns a logger that discards output unless TEST_LOG is set.
func NewTestLogger() zerolog.Logger {
	if os.Getenv("TEST_LOG") != "" {
		return logger.New(logger.Options{Level: "debug", Pretty: true, Output: os.Stderr})
	}
	return logger.New(logger.Options{Level: "debug", Output: io.Discard})
}
