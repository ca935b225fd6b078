package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/models/response_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

type CatalogServiceInterface interface {
	ListServices(ctx context.Context, includeInactive bool) ([]response_models.ServiceResponse, error)
	GetService(ctx context.Context, id uuid.UUID) (*response_models.ServiceResponse, error)
	CreateService(ctx context.Context, req request_models.CreateServiceRequest) (*response_models.ServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req request_models.UpdateServiceRequest) (*response_models.ServiceResponse, error)
	DeactivateService(ctx context.Context, id uuid.UUID) error
}

type CatalogService struct {
	serviceRepo repositories.ServiceRepository
	logger      *zap.Logger
}

func NewCatalogService(serviceRepo repositories.ServiceRepository, logger *zap.Logger) CatalogServiceInterface {
	return &CatalogService{serviceRepo: serviceRepo, logger: logger}
}

// ListServices returns the active catalog for customers; admins can request
// the full list including deactivated entries.
func (c *CatalogService) ListServices(ctx context.Context, includeInactive bool) ([]response_models.ServiceResponse, error) {
	var (
		services []db_models.Service
		err      error
	)
	if includeInactive {
		services, err = c.serviceRepo.ListAll(ctx)
	} else {
		services, err = c.serviceRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, response_models.NewServiceResponse(&services[i]))
	}
	return responses, nil
}

func (c *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*response_models.ServiceResponse, error) {
	service, err := c.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if service == nil {
		return nil, utils.ErrNotFound
	}
	resp := response_models.NewServiceResponse(service)
	return &resp, nil
}

func (c *CatalogService) CreateService(ctx context.Context, req request_models.CreateServiceRequest) (*response_models.ServiceResponse, error) {
	serviceType, err := db_models.ParseServiceType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	service := &db_models.Service{
		Name:        req.Name,
		Type:        serviceType,
		Description: req.Description,
		Price:       req.Price,
		SampleCount: req.SampleCount,
		Active:      true,
	}
	if err := c.serviceRepo.Insert(ctx, service); err != nil {
		return nil, utils.ErrDatabaseError
	}

	c.logger.Info("service created",
		zap.String("service_id", service.ID.String()),
		zap.String("name", service.Name),
		zap.String("type", string(service.Type)))

	resp := response_models.NewServiceResponse(service)
	return &resp, nil
}

func (c *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, req request_models.UpdateServiceRequest) (*response_models.ServiceResponse, error) {
	service, err := c.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if service == nil {
		return nil, utils.ErrNotFound
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.SampleCount != nil {
		service.SampleCount = *req.SampleCount
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := c.serviceRepo.Update(ctx, service); err != nil {
		return nil, utils.ErrDatabaseError
	}

	resp := response_models.NewServiceResponse(service)
	return &resp, nil
}

func (c *CatalogService) DeactivateService(ctx context.Context, id uuid.UUID) error {
	if err := c.serviceRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound
		}
		return utils.ErrDatabaseError
	}
	return nil
}
