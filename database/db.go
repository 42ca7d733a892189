package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/config"
	"github.com/juanlopolicaarpio/cocopan-monitor-3.0/models"
)

var DB *gorm.DB

// InitDB opens the configured database and ensures the schema. SQLite for
// local dev, Postgres in production, selected by USE_SQLITE.
func InitDB(cfg *config.Config) error {
	dialector := dialectorFor(cfg)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	DB = db
	return nil
}

func dialectorFor(cfg *config.Config) gorm.Dialector {
	if cfg.UseSQLite {
		return sqlite.Open(cfg.SQLitePath)
	}
	return postgres.Open(cfg.DatabaseURL)
}

// Migrate creates or updates the five tables of the monitor.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Store{},
		&models.StatusCheck{},
		&models.SummaryReport{},
		&models.StoreStatusHourly{},
		&models.StatusSummaryHourly{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
