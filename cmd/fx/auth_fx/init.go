package auth_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/config"
	"bloodline/internal/repositories"
	"bloodline/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideRefreshTokenRepo, provideAuthService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideRefreshTokenRepo(db *gorm.DB) repositories.RefreshTokenRepository {
	return repositories.NewRefreshTokenRepository(db)
}

func provideAuthService(
	accountRepo repositories.AccountRepository,
	tokenRepo repositories.RefreshTokenRepository,
	mailService services.IMailService,
	cfg *config.Config,
	logger *zap.Logger,
) services.AuthServiceInterface {
	return services.NewAuthService(accountRepo, tokenRepo, mailService, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, logger)
}
