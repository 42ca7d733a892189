package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// OpenTest opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own database so tests stay independent.
func OpenTest(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:monitor_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}
