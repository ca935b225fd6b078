package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type TestResultRepository interface {
	InsertTx(tx *gorm.DB, result *db_models.TestResult) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.TestResult, error)
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*db_models.TestResult, error)
	SetVerdictTx(tx *gorm.DB, id uuid.UUID, status db_models.ResultStatus, managerID uuid.UUID, confirmedAt int64) error

	// ResubmitTx overwrites a rejected result in place. One result row per
	// request; the rejected payload is replaced, not appended.
	ResubmitTx(tx *gorm.DB, id uuid.UUID, payload []byte, enteredBy uuid.UUID, enteredAt int64) error
}

type testResultRepository struct {
	db *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) TestResultRepository {
	return &testResultRepository{db: db}
}

func (t *testResultRepository) InsertTx(tx *gorm.DB, result *db_models.TestResult) error {
	return tx.Create(result).Error
}

func (t *testResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.TestResult, error) {
	var result db_models.TestResult
	err := t.db.WithContext(ctx).First(&result, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (t *testResultRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*db_models.TestResult, error) {
	var result db_models.TestResult
	err := t.db.WithContext(ctx).First(&result, "test_request_id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (t *testResultRepository) ResubmitTx(tx *gorm.DB, id uuid.UUID, payload []byte, enteredBy uuid.UUID, enteredAt int64) error {
	return tx.Model(&db_models.TestResult{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payload":      payload,
			"entered_by":   enteredBy,
			"entered_at":   enteredAt,
			"status":       db_models.ResultPending,
			"confirmed_by": nil,
			"confirmed_at": nil,
		}).Error
}

func (t *testResultRepository) SetVerdictTx(tx *gorm.DB, id uuid.UUID, status db_models.ResultStatus, managerID uuid.UUID, confirmedAt int64) error {
	return tx.Model(&db_models.TestResult{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"confirmed_by": managerID,
			"confirmed_at": confirmedAt,
		}).Error
}
