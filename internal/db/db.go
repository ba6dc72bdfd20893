package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campusverify/internal/models"
)

// Init opens the Postgres connection and migrates the user schema.
// TranslateError is enabled so a unique-index violation on roll_number
// surfaces as gorm.ErrDuplicatedKey instead of a raw pgx error.
func Init(ctx context.Context, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("access db handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := database.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("automigrate users: %w", err)
	}

	logger.Info("connected to database")
	return database, nil
}
