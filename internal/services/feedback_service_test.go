package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

func newFeedbackHarness(t *testing.T) (*gorm.DB, FeedbackServiceInterface) {
	t.Helper()

	db := newTestDB(t)
	svc := NewFeedbackService(
		repositories.NewFeedbackRepository(db),
		repositories.NewTestResultRepository(db),
		repositories.NewTestRequestRepository(db),
		zap.NewNop(),
	)
	return db, svc
}

func createResult(t *testing.T, db *gorm.DB, request *db_models.TestRequest, status db_models.ResultStatus) *db_models.TestResult {
	t.Helper()

	result := &db_models.TestResult{
		TestRequestID: request.ID,
		Payload:       []byte(`{"conclusion":"match"}`),
		EnteredBy:     uuid.New(),
		EnteredAt:     time.Now().Unix(),
		Status:        status,
	}
	require.NoError(t, db.Create(result).Error)
	return result
}

func feedbackReq(resultID uuid.UUID) request_models.AddFeedbackRequest {
	return request_models.AddFeedbackRequest{
		TestResultID: resultID.String(),
		Rating:       5,
		Comment:      "Fast turnaround and a clear, well explained report.",
	}
}

func TestAddFeedbackOnVerifiedOwnResult(t *testing.T) {
	db, svc := newFeedbackHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusCompleted, db_models.CollectionHome)
	result := createResult(t, db, request, db_models.ResultVerified)

	resp, err := svc.AddFeedback(ctx, customer.ID, feedbackReq(result.ID))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, result.ID, resp.TestResultID)
}

func TestAddFeedbackDuplicateConflicts(t *testing.T) {
	db, svc := newFeedbackHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusCompleted, db_models.CollectionHome)
	result := createResult(t, db, request, db_models.ResultVerified)

	_, err := svc.AddFeedback(ctx, customer.ID, feedbackReq(result.ID))
	require.NoError(t, err)

	_, err = svc.AddFeedback(ctx, customer.ID, feedbackReq(result.ID))
	assert.ErrorIs(t, err, utils.ErrDuplicateEntry)
}

func TestAddFeedbackByNonOwnerForbidden(t *testing.T) {
	db, svc := newFeedbackHarness(t)
	ctx := context.Background()

	owner := createAccount(t, db, "owner@example.com", db_models.RoleCustomer)
	other := createAccount(t, db, "other@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, owner, service, db_models.StatusCompleted, db_models.CollectionHome)
	result := createResult(t, db, request, db_models.ResultVerified)

	_, err := svc.AddFeedback(ctx, other.ID, feedbackReq(result.ID))
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestAddFeedbackOnUnverifiedResultConflicts(t *testing.T) {
	db, svc := newFeedbackHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPendingManagerApproval, db_models.CollectionHome)
	result := createResult(t, db, request, db_models.ResultPending)

	_, err := svc.AddFeedback(ctx, customer.ID, feedbackReq(result.ID))
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestAddFeedbackUnknownResultNotFound(t *testing.T) {
	db, svc := newFeedbackHarness(t)

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	_, err := svc.AddFeedback(context.Background(), customer.ID, feedbackReq(uuid.New()))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListPublicFiltersByRating(t *testing.T) {
	db, svc := newFeedbackHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)

	ratings := []int{2, 4, 5}
	for _, rating := range ratings {
		request := createRequest(t, db, customer, service, db_models.StatusCompleted, db_models.CollectionHome)
		result := createResult(t, db, request, db_models.ResultVerified)
		require.NoError(t, db.Create(&db_models.Feedback{
			AccountID:    customer.ID,
			TestResultID: result.ID,
			Rating:       rating,
			Comment:      "Comment long enough to satisfy the length rule.",
		}).Error)
	}

	all, err := svc.ListPublic(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	good, err := svc.ListPublic(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, good, 2)

	clamped, err := svc.ListPublic(ctx, 99)
	require.NoError(t, err)
	assert.Len(t, clamped, 2, "out-of-range filter falls back to the top-rated default")
}
