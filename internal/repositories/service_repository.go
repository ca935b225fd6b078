package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type ServiceRepository interface {
	Insert(ctx context.Context, service *db_models.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Service, error)
	ListActive(ctx context.Context) ([]db_models.Service, error)
	ListAll(ctx context.Context) ([]db_models.Service, error)
	Update(ctx context.Context, service *db_models.Service) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (s *serviceRepository) Insert(ctx context.Context, service *db_models.Service) error {
	return s.db.WithContext(ctx).Create(service).Error
}

func (s *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Service, error) {
	var service db_models.Service
	err := s.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (s *serviceRepository) ListActive(ctx context.Context) ([]db_models.Service, error) {
	var services []db_models.Service
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("type, name").
		Find(&services).Error
	return services, err
}

func (s *serviceRepository) ListAll(ctx context.Context) ([]db_models.Service, error) {
	var services []db_models.Service
	err := s.db.WithContext(ctx).Order("type, name").Find(&services).Error
	return services, err
}

func (s *serviceRepository) Update(ctx context.Context, service *db_models.Service) error {
	return s.db.WithContext(ctx).Save(service).Error
}

// Deactivate soft-deletes a catalog entry; rows referenced by requests are
// never removed.
func (s *serviceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&db_models.Service{}).
		Where("id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
