package testutil

import (
	"testing"

	"iotadmin-service/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB opens a fresh in-memory SQLite database with the service schema
// migrated. Every call returns an isolated database, so tests never see
// each other's rows.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	// Every pooled connection to :memory: would get its own database, so
	// pin the pool to a single connection
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Tenant{}, &model.Device{}); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}
