package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type SampleRepository interface {
	InsertTx(tx *gorm.DB, sample *db_models.SampleCategory) error
	CountByRequestTx(tx *gorm.DB, requestID uuid.UUID) (int64, error)

	// NationalIDExists is the fast-fail pre-check; the unique index on the
	// column is the true enforcement point.
	NationalIDExists(ctx context.Context, nationalID string) (bool, error)
}

type sampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (s *sampleRepository) InsertTx(tx *gorm.DB, sample *db_models.SampleCategory) error {
	return tx.Create(sample).Error
}

func (s *sampleRepository) CountByRequestTx(tx *gorm.DB, requestID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&db_models.SampleCategory{}).
		Where("test_request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

func (s *sampleRepository) NationalIDExists(ctx context.Context, nationalID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&db_models.SampleCategory{}).
		Where("national_id = ?", nationalID).
		Count(&count).Error
	return count > 0, err
}
