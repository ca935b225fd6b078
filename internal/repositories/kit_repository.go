package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type KitRepository interface {
	InsertKitTx(tx *gorm.DB, kit *db_models.KitRecord) error
	InsertFacilityVisitTx(tx *gorm.DB, visit *db_models.FacilityVisit) error
	FindKitByRequestID(ctx context.Context, requestID uuid.UUID) (*db_models.KitRecord, error)
}

type kitRepository struct {
	db *gorm.DB
}

func NewKitRepository(db *gorm.DB) KitRepository {
	return &kitRepository{db: db}
}

func (k *kitRepository) InsertKitTx(tx *gorm.DB, kit *db_models.KitRecord) error {
	return tx.Create(kit).Error
}

func (k *kitRepository) InsertFacilityVisitTx(tx *gorm.DB, visit *db_models.FacilityVisit) error {
	return tx.Create(visit).Error
}

func (k *kitRepository) FindKitByRequestID(ctx context.Context, requestID uuid.UUID) (*db_models.KitRecord, error) {
	var kit db_models.KitRecord
	err := k.db.WithContext(ctx).First(&kit, "test_request_id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kit, nil
}
