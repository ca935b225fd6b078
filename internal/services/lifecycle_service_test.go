package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

func samplePayload(nationalID string) SubmitSamplePayload {
	return SubmitSamplePayload{
		TesterName:   "Nguyen Van A",
		NationalID:   nationalID,
		BirthYear:    1990,
		Gender:       "Male",
		Relationship: "Father",
		SampleType:   "Buccal swab",
	}
}

func asActor(account *db_models.Account) Actor {
	return Actor{AccountID: account.ID, Role: account.Role}
}

func TestSubmitSampleAdvancesOnlyWhenComplete(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusInputInfo, db_models.CollectionHome)

	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(customer), EventSubmitSample, samplePayload("123456789"))
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusInputInfo), detail.Status, "one of two samples must not advance")
	assert.Len(t, detail.Samples, 1)

	detail, err = svc.ApplyTransition(ctx, request.ID, asActor(customer), EventSubmitSample, samplePayload("987654321"))
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusPending), detail.Status)
	assert.Len(t, detail.Samples, 2)
}

func TestSubmitSampleRejectsDuplicateNationalID(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 3)
	request := createRequest(t, db, customer, service, db_models.StatusInputInfo, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(customer), EventSubmitSample, samplePayload("111222333"))
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, request.ID, asActor(customer), EventSubmitSample, samplePayload("111222333"))
	assert.ErrorIs(t, err, utils.ErrDuplicateEntry)
}

func TestSubmitSampleByNonOwnerForbidden(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	owner := createAccount(t, db, "owner@example.com", db_models.RoleCustomer)
	other := createAccount(t, db, "other@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, owner, service, db_models.StatusInputInfo, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(other), EventSubmitSample, samplePayload("444555666"))
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestTransitionChecksNotFoundBeforeState(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	_ = createService(t, db, 2)

	_, err := svc.ApplyTransition(ctx, customer.ID /* not a request id */, asActor(customer), EventSubmitSample, samplePayload("123123123"))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestSubmitSampleInWrongStateConflicts(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusConfirmed, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(customer), EventSubmitSample, samplePayload("777888999"))
	assert.ErrorIs(t, err, utils.ErrInvalidState)
	assert.Equal(t, db_models.StatusConfirmed, requestStatus(t, db, request.ID), "illegal event must not mutate")
}

func TestConfirmHomeRequestCreatesKit(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPending, db_models.CollectionHome)

	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventConfirm, nil)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusConfirmed), detail.Status)
	require.NotNil(t, detail.AssignedStaffID)
	assert.Equal(t, staff.ID, *detail.AssignedStaffID)
	assert.NotEmpty(t, detail.KitCode)

	var kit db_models.KitRecord
	require.NoError(t, db.First(&kit, "test_request_id = ?", request.ID).Error)
	assert.Equal(t, db_models.KitGenerated, kit.Status)
}

func TestConfirmFacilityRequestCreatesVisit(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPending, db_models.CollectionFacility)

	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventConfirm, nil)
	require.NoError(t, err)
	assert.Empty(t, detail.KitCode, "facility collection has no kit")

	var visit db_models.FacilityVisit
	require.NoError(t, db.First(&visit, "test_request_id = ?", request.ID).Error)
}

// failingKitRepository rejects kit inserts so the confirm transaction
// cannot commit.
type failingKitRepository struct {
	repositories.KitRepository
}

func (f *failingKitRepository) InsertKitTx(*gorm.DB, *db_models.KitRecord) error {
	return errors.New("kit store unavailable")
}

func TestConfirmRollsBackStatusWhenKitInsertFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewLifecycleService(
		db,
		repositories.NewTestRequestRepository(db),
		repositories.NewSampleRepository(db),
		repositories.NewTestResultRepository(db),
		&failingKitRepository{KitRepository: repositories.NewKitRepository(db)},
		&recordingNotifier{},
		zap.NewNop(),
	)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPending, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventConfirm, nil)
	require.ErrorIs(t, err, utils.ErrDatabaseError)

	var after db_models.TestRequest
	require.NoError(t, db.First(&after, "id = ?", request.ID).Error)
	assert.Equal(t, db_models.StatusPending, after.Status, "status update rolls back with the failed insert")
	assert.Nil(t, after.AssignedStaffID)

	var kits int64
	require.NoError(t, db.Model(&db_models.KitRecord{}).Where("test_request_id = ?", request.ID).Count(&kits).Error)
	assert.Zero(t, kits)
}

func TestConfirmByCustomerForbidden(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPending, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(customer), EventConfirm, nil)
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Equal(t, db_models.StatusPending, requestStatus(t, db, request.ID))
}

func TestEnterResultMovesToManagerApproval(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusInProgress, db_models.CollectionHome)

	payload := EnterResultPayload{Payload: json.RawMessage(`{"conclusion":"99.99% match"}`)}
	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventEnterResult, payload)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusPendingManagerApproval), detail.Status)
	require.NotNil(t, detail.Result)
	assert.Equal(t, string(db_models.ResultPending), detail.Result.Status)

	_, err = svc.ApplyTransition(ctx, request.ID, asActor(staff), EventEnterResult, payload)
	assert.ErrorIs(t, err, utils.ErrInvalidState, "request already left InProgress")
}

func TestApproveCompletesAndNotifies(t *testing.T) {
	db, svc, notifier := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	manager := createAccount(t, db, "manager@example.com", db_models.RoleManager)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusInProgress, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventEnterResult,
		EnterResultPayload{Payload: json.RawMessage(`{"conclusion":"match"}`)})
	require.NoError(t, err)

	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(manager), EventApproveResult, nil)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusCompleted), detail.Status)
	require.NotNil(t, detail.Result)
	assert.Equal(t, string(db_models.ResultVerified), detail.Result.Status)
	require.NotNil(t, detail.Result.ConfirmedBy)
	assert.Equal(t, manager.ID, *detail.Result.ConfirmedBy)

	require.Len(t, notifier.notified(), 1)
	assert.Equal(t, request.ID, notifier.notified()[0])
}

func TestRejectReturnsToInProgressAndAllowsResubmit(t *testing.T) {
	db, svc, notifier := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	manager := createAccount(t, db, "manager@example.com", db_models.RoleManager)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusInProgress, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventEnterResult,
		EnterResultPayload{Payload: json.RawMessage(`{"conclusion":"inconclusive"}`)})
	require.NoError(t, err)

	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(manager), EventRejectResult, nil)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusInProgress), detail.Status)
	require.NotNil(t, detail.Result)
	assert.Equal(t, string(db_models.ResultRejected), detail.Result.Status)
	assert.Empty(t, notifier.notified(), "rejection must not notify the customer")

	// The corrected result replaces the rejected one.
	detail, err = svc.ApplyTransition(ctx, request.ID, asActor(staff), EventEnterResult,
		EnterResultPayload{Payload: json.RawMessage(`{"conclusion":"match"}`)})
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusPendingManagerApproval), detail.Status)
	assert.Equal(t, string(db_models.ResultPending), detail.Result.Status)
}

func TestVerdictByStaffForbidden(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPendingManagerApproval, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(staff), EventApproveResult, nil)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestCancelByOwner(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, customer, service, db_models.StatusPending, db_models.CollectionHome)

	detail, err := svc.ApplyTransition(ctx, request.ID, asActor(customer), EventCancel, nil)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.StatusCancelled), detail.Status)
}

func TestCancelByOtherCustomerForbidden(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	owner := createAccount(t, db, "owner@example.com", db_models.RoleCustomer)
	other := createAccount(t, db, "other@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	request := createRequest(t, db, owner, service, db_models.StatusPending, db_models.CollectionHome)

	_, err := svc.ApplyTransition(ctx, request.ID, asActor(other), EventCancel, nil)
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Equal(t, db_models.StatusPending, requestStatus(t, db, request.ID))
}

func TestCancelTerminalRequestConflicts(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)

	for _, status := range []db_models.RequestStatus{db_models.StatusCompleted, db_models.StatusCancelled} {
		request := createRequest(t, db, customer, service, status, db_models.CollectionHome)
		_, err := svc.ApplyTransition(ctx, request.ID, asActor(customer), EventCancel, nil)
		assert.ErrorIs(t, err, utils.ErrInvalidState)
		assert.Equal(t, status, requestStatus(t, db, request.ID))
	}
}

func TestGetRequestDetailOwnership(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	owner := createAccount(t, db, "owner@example.com", db_models.RoleCustomer)
	other := createAccount(t, db, "other@example.com", db_models.RoleCustomer)
	staff := createAccount(t, db, "staff@example.com", db_models.RoleStaff)
	service := createService(t, db, 2)
	request := createRequest(t, db, owner, service, db_models.StatusPending, db_models.CollectionHome)

	_, err := svc.GetRequestDetail(ctx, request.ID, asActor(owner))
	assert.NoError(t, err)

	_, err = svc.GetRequestDetail(ctx, request.ID, asActor(other))
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = svc.GetRequestDetail(ctx, request.ID, asActor(staff))
	assert.NoError(t, err, "staff may read any request")
}

func TestListPendingFiltersByStatus(t *testing.T) {
	db, svc, _ := newLifecycleHarness(t)
	ctx := context.Background()

	customer := createAccount(t, db, "customer@example.com", db_models.RoleCustomer)
	service := createService(t, db, 2)
	createRequest(t, db, customer, service, db_models.StatusPending, db_models.CollectionHome)
	createRequest(t, db, customer, service, db_models.StatusInputInfo, db_models.CollectionHome)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, string(db_models.StatusPending), pending[0].Status)
}

func TestGenerateKitCodeFormat(t *testing.T) {
	code := GenerateKitCode()
	assert.Len(t, code, 3+6+8)
	assert.Equal(t, "KIT", code[:3])
	assert.NotEqual(t, GenerateKitCode(), code)
}
