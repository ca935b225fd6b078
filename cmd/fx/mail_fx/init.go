package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"bloodline/internal/config"
	"bloodline/internal/services"
)

var Module = fx.Provide(
	provideMailService, provideResultNotifier)

func provideMailService(cfg *config.Config, logger *zap.Logger) services.IMailService {
	return services.NewMailService(cfg.SMTP, cfg.FrontendURL, logger)
}

func provideResultNotifier(mail services.IMailService, logger *zap.Logger) services.ResultNotifier {
	return services.NewResultNotifier(mail, logger)
}
