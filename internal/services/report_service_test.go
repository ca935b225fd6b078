package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

func newReportHarness(t *testing.T) (*gorm.DB, ReportServiceInterface) {
	t.Helper()

	db := newTestDB(t)
	svc := NewReportService(
		repositories.NewTestRequestRepository(db),
		repositories.NewKitRepository(db),
		zap.NewNop(),
	)
	return db, svc
}

func completedRequest(t *testing.T, db *gorm.DB, customer *db_models.Account) *db_models.TestRequest {
	t.Helper()

	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusCompleted, db_models.CollectionHome)

	confirmedAt := time.Now().Unix()
	require.NoError(t, db.Create(&db_models.TestResult{
		TestRequestID: request.ID,
		Payload:       []byte(`{"conclusion":"99.99% probability of paternity"}`),
		EnteredBy:     customer.ID,
		EnteredAt:     confirmedAt,
		Status:        db_models.ResultVerified,
		ConfirmedBy:   &customer.ID,
		ConfirmedAt:   &confirmedAt,
	}).Error)

	require.NoError(t, db.Create(&db_models.SampleCategory{
		TestRequestID: request.ID,
		TesterName:    "Nguyen Van A",
		NationalID:    "123456789",
		BirthYear:     1990,
		Gender:        "Male",
		Relationship:  "Father",
		SampleType:    "Buccal swab",
	}).Error)

	return request
}

func TestGenerateResultPDF(t *testing.T) {
	db, svc := newReportHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	request := completedRequest(t, db, customer)

	pdf, err := svc.GenerateResultPDF(ctx, Actor{AccountID: customer.ID, Role: db_models.RoleCustomer}, request.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateResultPDFForbiddenForOtherCustomer(t *testing.T) {
	db, svc := newReportHarness(t)
	ctx := context.Background()

	owner := createAccount(t, db, "owner@example.com", db_models.RoleCustomer)
	other := createAccount(t, db, "other@example.com", db_models.RoleCustomer)
	request := completedRequest(t, db, owner)

	_, err := svc.GenerateResultPDF(ctx, Actor{AccountID: other.ID, Role: db_models.RoleCustomer}, request.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	manager := createAccount(t, db, "manager@example.com", db_models.RoleManager)
	_, err = svc.GenerateResultPDF(ctx, Actor{AccountID: manager.ID, Role: db_models.RoleManager}, request.ID)
	assert.NoError(t, err, "staff roles may download any report")
}

func TestGenerateResultPDFRequiresVerifiedResult(t *testing.T) {
	db, svc := newReportHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusInProgress, db_models.CollectionHome)

	_, err := svc.GenerateResultPDF(ctx, Actor{AccountID: customer.ID, Role: db_models.RoleCustomer}, request.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}
