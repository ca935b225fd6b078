package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/response_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

// Event names a lifecycle transition request. Every status change on a test
// request goes through ApplyTransition with one of these.
type Event string

const (
	EventSubmitSample   Event = "submit_sample"
	EventConfirm        Event = "confirm"
	EventMarkInProgress Event = "mark_in_progress"
	EventEnterResult    Event = "enter_result"
	EventApproveResult  Event = "approve_result"
	EventRejectResult   Event = "reject_result"
	EventCancel         Event = "cancel"
)

// Actor is the authenticated identity attempting a transition.
type Actor struct {
	AccountID uuid.UUID
	Role      db_models.Role
}

type SubmitSamplePayload struct {
	TesterName     string
	NationalID     string
	BirthYear      int
	Gender         string
	Relationship   string
	SampleType     string
	SignatureImage string
}

type EnterResultPayload struct {
	Payload json.RawMessage
}

type transitionRule struct {
	from      []db_models.RequestStatus
	to        db_models.RequestStatus
	roles     []db_models.Role
	ownerOnly bool
}

// transitionTable is the single authority for which (status, event, role)
// triples are legal. Route handlers stay thin; nothing else mutates status.
var transitionTable = map[Event]transitionRule{
	EventSubmitSample: {
		from:      []db_models.RequestStatus{db_models.StatusInputInfo},
		to:        db_models.StatusPending,
		roles:     []db_models.Role{db_models.RoleCustomer},
		ownerOnly: true,
	},
	EventConfirm: {
		from:  []db_models.RequestStatus{db_models.StatusPending},
		to:    db_models.StatusConfirmed,
		roles: []db_models.Role{db_models.RoleStaff},
	},
	EventMarkInProgress: {
		from:  []db_models.RequestStatus{db_models.StatusConfirmed},
		to:    db_models.StatusInProgress,
		roles: []db_models.Role{db_models.RoleStaff},
	},
	EventEnterResult: {
		from:  []db_models.RequestStatus{db_models.StatusInProgress},
		to:    db_models.StatusPendingManagerApproval,
		roles: []db_models.Role{db_models.RoleStaff},
	},
	EventApproveResult: {
		from:  []db_models.RequestStatus{db_models.StatusPendingManagerApproval},
		to:    db_models.StatusCompleted,
		roles: []db_models.Role{db_models.RoleManager},
	},
	EventRejectResult: {
		from:  []db_models.RequestStatus{db_models.StatusPendingManagerApproval},
		to:    db_models.StatusInProgress,
		roles: []db_models.Role{db_models.RoleManager},
	},
	EventCancel: {
		from: []db_models.RequestStatus{
			db_models.StatusInputInfo, db_models.StatusPending, db_models.StatusConfirmed,
			db_models.StatusInProgress, db_models.StatusPendingManagerApproval,
		},
		to:        db_models.StatusCancelled,
		roles:     []db_models.Role{db_models.RoleCustomer, db_models.RoleStaff, db_models.RoleManager},
		ownerOnly: false, // ownership still enforced below for customers
	},
}

// ResultNotifier is the outbound notification hook. Calls are fire-and-forget
// from the lifecycle's perspective; a failed email never blocks a transition.
type ResultNotifier interface {
	NotifyResultAvailable(email, fullName, serviceName string, requestID uuid.UUID)
}

type LifecycleServiceInterface interface {
	ApplyTransition(ctx context.Context, requestID uuid.UUID, actor Actor, event Event, payload interface{}) (*response_models.TestRequestDetail, error)

	GetRequestDetail(ctx context.Context, requestID uuid.UUID, actor Actor) (*response_models.TestRequestDetail, error)
	ListByCustomer(ctx context.Context, accountID uuid.UUID) ([]response_models.TestRequestDetail, error)
	ListPending(ctx context.Context) ([]response_models.TestRequestDetail, error)
	ListByAssignedStaff(ctx context.Context, staffID uuid.UUID) ([]response_models.TestRequestDetail, error)
}

type LifecycleService struct {
	db          *gorm.DB
	requestRepo repositories.TestRequestRepository
	sampleRepo  repositories.SampleRepository
	resultRepo  repositories.TestResultRepository
	kitRepo     repositories.KitRepository
	notifier    ResultNotifier
	logger      *zap.Logger
}

func NewLifecycleService(
	db *gorm.DB,
	requestRepo repositories.TestRequestRepository,
	sampleRepo repositories.SampleRepository,
	resultRepo repositories.TestResultRepository,
	kitRepo repositories.KitRepository,
	notifier ResultNotifier,
	logger *zap.Logger,
) LifecycleServiceInterface {
	return &LifecycleService{
		db:          db,
		requestRepo: requestRepo,
		sampleRepo:  sampleRepo,
		resultRepo:  resultRepo,
		kitRepo:     kitRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// ApplyTransition validates and executes one lifecycle event. Checks run in
// the contract's order: existence, then role/ownership, then state. All row
// mutations for the event happen in a single transaction.
func (l *LifecycleService) ApplyTransition(ctx context.Context, requestID uuid.UUID, actor Actor, event Event, payload interface{}) (*response_models.TestRequestDetail, error) {
	rule, ok := transitionTable[event]
	if !ok {
		return nil, fmt.Errorf("%w: unknown event %q", utils.ErrValidation, event)
	}

	request, err := l.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if request == nil {
		return nil, utils.ErrNotFound
	}

	if err := l.authorize(rule, event, actor, request); err != nil {
		return nil, err
	}

	if !statusIn(request.Status, rule.from) {
		return nil, fmt.Errorf("%w: cannot %s a request in status %s", utils.ErrInvalidState, event, request.Status)
	}

	switch event {
	case EventSubmitSample:
		err = l.submitSample(ctx, request, actor, payload)
	case EventConfirm:
		err = l.confirm(ctx, request, actor)
	case EventMarkInProgress:
		err = l.advanceStatus(ctx, request, rule)
	case EventEnterResult:
		err = l.enterResult(ctx, request, actor, payload)
	case EventApproveResult:
		err = l.verdict(ctx, request, actor, db_models.ResultVerified, rule.to)
	case EventRejectResult:
		err = l.verdict(ctx, request, actor, db_models.ResultRejected, rule.to)
	case EventCancel:
		err = l.advanceStatus(ctx, request, rule)
	}
	if err != nil {
		return nil, err
	}

	detail, derr := l.loadDetail(ctx, requestID)
	if derr != nil {
		return nil, derr
	}

	l.logger.Info("lifecycle transition applied",
		zap.String("request_id", requestID.String()),
		zap.String("event", string(event)),
		zap.String("status", detail.Status),
		zap.String("actor", actor.AccountID.String()),
		zap.String("role", string(actor.Role)))

	if event == EventApproveResult && l.notifier != nil {
		l.notifier.NotifyResultAvailable(detail.Customer.Email, detail.Customer.FullName, detail.Service.Name, requestID)
	}

	return detail, nil
}

func (l *LifecycleService) authorize(rule transitionRule, event Event, actor Actor, request *db_models.TestRequest) error {
	allowed := false
	for _, r := range rule.roles {
		if strings.EqualFold(string(actor.Role), string(r)) {
			allowed = true
			break
		}
	}
	if !allowed {
		return utils.ErrForbidden
	}

	ownerCheck := rule.ownerOnly ||
		(event == EventCancel && strings.EqualFold(string(actor.Role), string(db_models.RoleCustomer)))
	if ownerCheck && request.AccountID != actor.AccountID {
		return utils.ErrForbidden
	}
	return nil
}

// submitSample accepts one sample. Samples are accepted one at a time; the
// request leaves InputInfo only once the count reaches the service's required
// sample count, recomputed on every insert.
func (l *LifecycleService) submitSample(ctx context.Context, request *db_models.TestRequest, actor Actor, payload interface{}) error {
	p, ok := payload.(SubmitSamplePayload)
	if !ok {
		return fmt.Errorf("%w: missing sample payload", utils.ErrValidation)
	}

	exists, err := l.sampleRepo.NationalIDExists(ctx, p.NationalID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if exists {
		return fmt.Errorf("%w: national ID already registered", utils.ErrDuplicateEntry)
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sample := &db_models.SampleCategory{
			TestRequestID:  request.ID,
			TesterName:     p.TesterName,
			NationalID:     p.NationalID,
			BirthYear:      p.BirthYear,
			Gender:         p.Gender,
			Relationship:   p.Relationship,
			SampleType:     p.SampleType,
			SignatureImage: p.SignatureImage,
		}
		if err := l.sampleRepo.InsertTx(tx, sample); err != nil {
			return utils.ErrDatabaseError
		}

		count, err := l.sampleRepo.CountByRequestTx(tx, request.ID)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if int(count) < request.Service.SampleCount {
			return nil // stays in InputInfo until all samples are in
		}

		moved, err := l.requestRepo.UpdateStatusTx(tx, request.ID, db_models.StatusInputInfo, db_models.StatusPending)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if !moved {
			return fmt.Errorf("%w: request left InputInfo concurrently", utils.ErrInvalidState)
		}
		return nil
	})
}

// confirm assigns the acting staff member and creates the tracking row that
// matches the collection method. Status update and child insert commit or
// roll back together.
func (l *LifecycleService) confirm(ctx context.Context, request *db_models.TestRequest, actor Actor) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		moved, err := l.requestRepo.UpdateStatusTx(tx, request.ID, db_models.StatusPending, db_models.StatusConfirmed)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if !moved {
			return fmt.Errorf("%w: request already confirmed or moved on", utils.ErrInvalidState)
		}

		if err := l.requestRepo.AssignStaffTx(tx, request.ID, actor.AccountID); err != nil {
			return utils.ErrDatabaseError
		}

		switch request.CollectionMethod {
		case db_models.CollectionHome:
			kit := &db_models.KitRecord{
				TestRequestID: request.ID,
				KitCode:       GenerateKitCode(),
				Status:        db_models.KitGenerated,
			}
			if err := l.kitRepo.InsertKitTx(tx, kit); err != nil {
				return utils.ErrDatabaseError
			}
		case db_models.CollectionFacility:
			visit := &db_models.FacilityVisit{
				TestRequestID: request.ID,
				ScheduledAt:   request.Appointment,
			}
			if err := l.kitRepo.InsertFacilityVisitTx(tx, visit); err != nil {
				return utils.ErrDatabaseError
			}
		}
		return nil
	})
}

func (l *LifecycleService) enterResult(ctx context.Context, request *db_models.TestRequest, actor Actor, payload interface{}) error {
	p, ok := payload.(EnterResultPayload)
	if !ok || len(p.Payload) == 0 {
		return fmt.Errorf("%w: missing result payload", utils.ErrValidation)
	}

	existing, err := l.resultRepo.FindByRequestID(ctx, request.ID)
	if err != nil {
		return utils.ErrDatabaseError
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch {
		case existing == nil:
			result := &db_models.TestResult{
				TestRequestID: request.ID,
				Payload:       []byte(p.Payload),
				EnteredBy:     actor.AccountID,
				EnteredAt:     time.Now().Unix(),
				Status:        db_models.ResultPending,
			}
			if err := l.resultRepo.InsertTx(tx, result); err != nil {
				return utils.ErrDatabaseError
			}
		case existing.Status == db_models.ResultRejected:
			// Rejection sent the request back to InProgress; the corrected
			// result replaces the rejected one.
			if err := l.resultRepo.ResubmitTx(tx, existing.ID, []byte(p.Payload), actor.AccountID, time.Now().Unix()); err != nil {
				return utils.ErrDatabaseError
			}
		default:
			return fmt.Errorf("%w: result already entered for this request", utils.ErrDuplicateEntry)
		}

		moved, err := l.requestRepo.UpdateStatusTx(tx, request.ID, db_models.StatusInProgress, db_models.StatusPendingManagerApproval)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if !moved {
			return fmt.Errorf("%w: request moved on concurrently", utils.ErrInvalidState)
		}
		return nil
	})
}

// verdict applies the manager's decision. Approval completes the request;
// rejection keeps the result row (status Rejected) and sends the request back
// to InProgress.
func (l *LifecycleService) verdict(ctx context.Context, request *db_models.TestRequest, actor Actor, status db_models.ResultStatus, to db_models.RequestStatus) error {
	result, err := l.resultRepo.FindByRequestID(ctx, request.ID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if result == nil {
		return fmt.Errorf("%w: no result awaiting approval", utils.ErrInvalidState)
	}
	if result.Status != db_models.ResultPending {
		return fmt.Errorf("%w: result already %s", utils.ErrInvalidState, result.Status)
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.resultRepo.SetVerdictTx(tx, result.ID, status, actor.AccountID, time.Now().Unix()); err != nil {
			return utils.ErrDatabaseError
		}

		moved, err := l.requestRepo.UpdateStatusTx(tx, request.ID, db_models.StatusPendingManagerApproval, to)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if !moved {
			return fmt.Errorf("%w: request moved on concurrently", utils.ErrInvalidState)
		}
		return nil
	})
}

func (l *LifecycleService) advanceStatus(ctx context.Context, request *db_models.TestRequest, rule transitionRule) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		moved, err := l.requestRepo.UpdateStatusTx(tx, request.ID, request.Status, rule.to)
		if err != nil {
			return utils.ErrDatabaseError
		}
		if !moved {
			return fmt.Errorf("%w: request moved on concurrently", utils.ErrInvalidState)
		}
		return nil
	})
}

// GetRequestDetail returns the shared projection. Customers may only read
// their own requests; staff, managers and admins may read any.
func (l *LifecycleService) GetRequestDetail(ctx context.Context, requestID uuid.UUID, actor Actor) (*response_models.TestRequestDetail, error) {
	detail, err := l.loadDetail(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(string(actor.Role), string(db_models.RoleCustomer)) && detail.Customer.ID != actor.AccountID {
		return nil, utils.ErrForbidden
	}
	return detail, nil
}

func (l *LifecycleService) ListByCustomer(ctx context.Context, accountID uuid.UUID) ([]response_models.TestRequestDetail, error) {
	requests, err := l.requestRepo.ListByCustomer(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return l.toDetails(requests), nil
}

func (l *LifecycleService) ListPending(ctx context.Context) ([]response_models.TestRequestDetail, error) {
	requests, err := l.requestRepo.ListByStatus(ctx, db_models.StatusPending)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return l.toDetails(requests), nil
}

func (l *LifecycleService) ListByAssignedStaff(ctx context.Context, staffID uuid.UUID) ([]response_models.TestRequestDetail, error) {
	requests, err := l.requestRepo.ListByAssignedStaff(ctx, staffID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return l.toDetails(requests), nil
}

func (l *LifecycleService) loadDetail(ctx context.Context, requestID uuid.UUID) (*response_models.TestRequestDetail, error) {
	request, err := l.requestRepo.FindDetail(ctx, requestID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if request == nil {
		return nil, utils.ErrNotFound
	}

	kitCode := ""
	if request.CollectionMethod == db_models.CollectionHome {
		kit, err := l.kitRepo.FindKitByRequestID(ctx, requestID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if kit != nil {
			kitCode = kit.KitCode
		}
	}

	return response_models.NewTestRequestDetail(request, kitCode), nil
}

func (l *LifecycleService) toDetails(requests []db_models.TestRequest) []response_models.TestRequestDetail {
	details := make([]response_models.TestRequestDetail, 0, len(requests))
	for i := range requests {
		details = append(details, *response_models.NewTestRequestDetail(&requests[i], ""))
	}
	return details
}

func statusIn(status db_models.RequestStatus, set []db_models.RequestStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// GenerateKitCode produces a home-collection kit identifier:
// "KIT" + last 6 digits of the unix timestamp + 8 random hex chars.
func GenerateKitCode() string {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}

	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "KIT" + ts + strings.ToUpper(hex.EncodeToString(buf))
}
