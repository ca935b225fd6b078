package payment_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/config"
	"bloodline/internal/repositories"
	"bloodline/internal/services"
	mem "bloodline/pkg/memcache"
)

var Module = fx.Provide(
	providePaymentRepo, provideSessionStore, providePaymentService)

func providePaymentRepo(db *gorm.DB) repositories.PaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func provideSessionStore() mem.PaymentSessionStore {
	return mem.NewPaymentSessions()
}

func providePaymentService(
	db *gorm.DB,
	cfg *config.Config,
	sessions mem.PaymentSessionStore,
	paymentRepo repositories.PaymentRepository,
	serviceRepo repositories.ServiceRepository,
	requestRepo repositories.TestRequestRepository,
	logger *zap.Logger,
) (services.PaymentServiceInterface, error) {
	return services.NewPaymentService(db, cfg.VNPay, cfg.PaymentSessionTTL, sessions, paymentRepo, serviceRepo, requestRepo, logger)
}
