package lifecycle_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/repositories"
	"bloodline/internal/services"
)

var Module = fx.Provide(
	provideRequestRepo, provideSampleRepo, provideResultRepo, provideKitRepo,
	provideLifecycleService, provideReportService)

func provideRequestRepo(db *gorm.DB) repositories.TestRequestRepository {
	return repositories.NewTestRequestRepository(db)
}

func provideSampleRepo(db *gorm.DB) repositories.SampleRepository {
	return repositories.NewSampleRepository(db)
}

func provideResultRepo(db *gorm.DB) repositories.TestResultRepository {
	return repositories.NewTestResultRepository(db)
}

func provideKitRepo(db *gorm.DB) repositories.KitRepository {
	return repositories.NewKitRepository(db)
}

func provideLifecycleService(
	db *gorm.DB,
	requestRepo repositories.TestRequestRepository,
	sampleRepo repositories.SampleRepository,
	resultRepo repositories.TestResultRepository,
	kitRepo repositories.KitRepository,
	notifier services.ResultNotifier,
	logger *zap.Logger,
) services.LifecycleServiceInterface {
	return services.NewLifecycleService(db, requestRepo, sampleRepo, resultRepo, kitRepo, notifier, logger)
}

func provideReportService(
	requestRepo repositories.TestRequestRepository,
	kitRepo repositories.KitRepository,
	logger *zap.Logger,
) services.ReportServiceInterface {
	return services.NewReportService(requestRepo, kitRepo, logger)
}
