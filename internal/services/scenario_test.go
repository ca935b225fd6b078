package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/repositories"
	mem "bloodline/pkg/memcache"
)

// TestFullBookingScenario walks one order end to end: paid checkout, sample
// submission, staff handling, manager approval, PDF download and feedback.
func TestFullBookingScenario(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	requestRepo := repositories.NewTestRequestRepository(db)
	resultRepo := repositories.NewTestResultRepository(db)
	kitRepo := repositories.NewKitRepository(db)
	notifier := &recordingNotifier{}

	lifecycle := NewLifecycleService(db, requestRepo,
		repositories.NewSampleRepository(db), resultRepo, kitRepo, notifier, zap.NewNop())
	payments, err := NewPaymentService(db, testVNPay, 30*time.Minute, mem.NewPaymentSessions(),
		repositories.NewPaymentRepository(db), repositories.NewServiceRepository(db), requestRepo, zap.NewNop())
	require.NoError(t, err)
	reports := NewReportService(requestRepo, kitRepo, zap.NewNop())
	feedback := NewFeedbackService(repositories.NewFeedbackRepository(db), resultRepo, requestRepo, zap.NewNop())

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	manager := createAccount(t, db, "manager@example.com", db_models.RoleManager)
	service := createService(t, db, 2)

	// Checkout and gateway settle.
	checkout, err := payments.CreateCheckout(ctx, customer.ID, request_models.CheckoutRequest{
		ServiceID:        service.ID.String(),
		CollectionMethod: "Home",
	}, "10.0.0.1")
	require.NoError(t, err)

	outcome, err := payments.HandleGatewayReturn(ctx, settleQuery(t, checkout.TxnRef, "00"))
	require.NoError(t, err)
	require.True(t, outcome.Success)
	requestID, err := uuid.Parse(outcome.TestRequestID)
	require.NoError(t, err)

	// Customer enters both samples.
	_, err = lifecycle.ApplyTransition(ctx, requestID, asActor(customer), EventSubmitSample, samplePayload("100200300"))
	require.NoError(t, err)
	detail, err := lifecycle.ApplyTransition(ctx, requestID, asActor(customer), EventSubmitSample, samplePayload("400500600"))
	require.NoError(t, err)
	require.Equal(t, string(db_models.StatusPending), detail.Status)

	// Staff confirm, collect, enter the result.
	detail, err = lifecycle.ApplyTransition(ctx, requestID, asActor(staff), EventConfirm, nil)
	require.NoError(t, err)
	require.NotEmpty(t, detail.KitCode)

	_, err = lifecycle.ApplyTransition(ctx, requestID, asActor(staff), EventMarkInProgress, nil)
	require.NoError(t, err)
	_, err = lifecycle.ApplyTransition(ctx, requestID, asActor(staff), EventEnterResult,
		EnterResultPayload{Payload: json.RawMessage(`{"conclusion":"99.99% probability of paternity"}`)})
	require.NoError(t, err)

	// Manager approves; the customer is notified.
	detail, err = lifecycle.ApplyTransition(ctx, requestID, asActor(manager), EventApproveResult, nil)
	require.NoError(t, err)
	require.Equal(t, string(db_models.StatusCompleted), detail.Status)
	require.Len(t, notifier.notified(), 1)

	// Customer downloads the report and rates the result.
	pdf, err := reports.GenerateResultPDF(ctx, asActor(customer), requestID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	require.NotNil(t, detail.Result)
	_, err = feedback.AddFeedback(ctx, customer.ID, request_models.AddFeedbackRequest{
		TestResultID: detail.Result.ID.String(),
		Rating:       5,
		Comment:      "Fast turnaround and a clear, well explained report.",
	})
	require.NoError(t, err)

	public, err := feedback.ListPublic(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, public, 1)
}
