package catalog_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/repositories"
	"bloodline/internal/services"
)

var Module = fx.Provide(
	provideServiceRepo, provideCatalogService)

func provideServiceRepo(db *gorm.DB) repositories.ServiceRepository {
	return repositories.NewServiceRepository(db)
}

func provideCatalogService(serviceRepo repositories.ServiceRepository, logger *zap.Logger) services.CatalogServiceInterface {
	return services.NewCatalogService(serviceRepo, logger)
}
