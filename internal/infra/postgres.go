package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bloodline/internal/config"
	"bloodline/internal/models/db_models"
)

func InitPostgresql(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("postgres connected and migrated")
	return db, nil
}

// Migrate keeps the schema in sync with the model structs. Shared with the
// sqlite-backed test harness.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Account{},
		&db_models.UserProfile{},
		&db_models.RefreshToken{},
		&db_models.Service{},
		&db_models.Payment{},
		&db_models.TestRequest{},
		&db_models.SampleCategory{},
		&db_models.TestResult{},
		&db_models.KitRecord{},
		&db_models.FacilityVisit{},
		&db_models.Feedback{},
	)
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("get underlying sql.DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("close database connection", zap.Error(err))
		return
	}
	logger.Info("database connection closed")
}
