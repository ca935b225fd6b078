package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type TestRequestRepository interface {
	InsertTx(tx *gorm.DB, request *db_models.TestRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.TestRequest, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*db_models.TestRequest, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*db_models.TestRequest, error)
	ListByCustomer(ctx context.Context, accountID uuid.UUID) ([]db_models.TestRequest, error)
	ListByAssignedStaff(ctx context.Context, staffID uuid.UUID) ([]db_models.TestRequest, error)
	ListByStatus(ctx context.Context, status db_models.RequestStatus) ([]db_models.TestRequest, error)

	// UpdateStatusTx moves a request from one status to another with an
	// optimistic guard: the UPDATE carries the expected source status and the
	// caller must treat zero affected rows as a lost race.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to db_models.RequestStatus) (bool, error)
	AssignStaffTx(tx *gorm.DB, id uuid.UUID, staffID uuid.UUID) error
}

type testRequestRepository struct {
	db *gorm.DB
}

func NewTestRequestRepository(db *gorm.DB) TestRequestRepository {
	return &testRequestRepository{db: db}
}

func (t *testRequestRepository) InsertTx(tx *gorm.DB, request *db_models.TestRequest) error {
	return tx.Create(request).Error
}

func (t *testRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.TestRequest, error) {
	return t.FindByIDTx(t.db.WithContext(ctx), id)
}

func (t *testRequestRepository) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*db_models.TestRequest, error) {
	var request db_models.TestRequest
	err := tx.Preload("Service").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// FindDetail loads the full projection source: service, customer profile,
// samples and result in one query set.
func (t *testRequestRepository) FindDetail(ctx context.Context, id uuid.UUID) (*db_models.TestRequest, error) {
	var request db_models.TestRequest
	err := t.db.WithContext(ctx).
		Preload("Service").
		Preload("Account").
		Preload("Account.Profile").
		Preload("Samples").
		Preload("Result").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (t *testRequestRepository) ListByCustomer(ctx context.Context, accountID uuid.UUID) ([]db_models.TestRequest, error) {
	var requests []db_models.TestRequest
	err := t.db.WithContext(ctx).
		Preload("Service").
		Preload("Samples").
		Preload("Result").
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (t *testRequestRepository) ListByAssignedStaff(ctx context.Context, staffID uuid.UUID) ([]db_models.TestRequest, error) {
	var requests []db_models.TestRequest
	err := t.db.WithContext(ctx).
		Preload("Service").
		Preload("Account").
		Preload("Account.Profile").
		Where("assigned_staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (t *testRequestRepository) ListByStatus(ctx context.Context, status db_models.RequestStatus) ([]db_models.TestRequest, error) {
	var requests []db_models.TestRequest
	err := t.db.WithContext(ctx).
		Preload("Service").
		Preload("Account").
		Preload("Account.Profile").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (t *testRequestRepository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to db_models.RequestStatus) (bool, error) {
	res := tx.Model(&db_models.TestRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (t *testRequestRepository) AssignStaffTx(tx *gorm.DB, id uuid.UUID, staffID uuid.UUID) error {
	return tx.Model(&db_models.TestRequest{}).
		Where("id = ?", id).
		Update("assigned_staff_id", staffID).Error
}
