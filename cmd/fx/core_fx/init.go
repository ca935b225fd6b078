package core_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/config"
	"bloodline/internal/infra"
	"bloodline/pkg/utils"
)

var Module = fx.Provide(
	provideConfig, provideLogger, provideDB)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	utils.SetJWTSecret(cfg.JWTSecret)
	return cfg, nil
}

func provideLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return infra.InitPostgresql(cfg, logger)
}
