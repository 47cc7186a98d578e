package database

import (
	"fmt"
	"log"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Connect opens a Postgres connection pool for the prompt store
func Connect(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	return Open(postgres.Open(databaseURL))
}

// Open opens a gorm connection over any dialector and tunes the pool
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	log.Printf("🗄️  Database connected (dialect: %s)", db.Dialector.Name())
	return db, nil
}

// Migrate creates or updates the prompts table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SavedPrompt{}); err != nil {
		return fmt.Errorf("failed to migrate prompts table: %w", err)
	}
	return nil
}
