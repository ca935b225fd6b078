package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/models/response_models"
	"bloodline/internal/repositories"
	mem "bloodline/pkg/memcache"
	"bloodline/pkg/utils"
	"bloodline/pkg/vnpay"
)

type PaymentServiceInterface interface {
	CreateCheckout(ctx context.Context, accountID uuid.UUID, req request_models.CheckoutRequest, clientIP string) (*response_models.CheckoutResponse, error)
	HandleGatewayReturn(ctx context.Context, query url.Values) (*response_models.GatewayOutcome, error)
}

type PaymentService struct {
	db          *gorm.DB
	cfg         vnpay.Config
	sessionTTL  time.Duration
	sessions    mem.PaymentSessionStore
	paymentRepo repositories.PaymentRepository
	serviceRepo repositories.ServiceRepository
	requestRepo repositories.TestRequestRepository
	logger      *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	cfg vnpay.Config,
	sessionTTL time.Duration,
	sessions mem.PaymentSessionStore,
	paymentRepo repositories.PaymentRepository,
	serviceRepo repositories.ServiceRepository,
	requestRepo repositories.TestRequestRepository,
	logger *zap.Logger,
) (PaymentServiceInterface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PaymentService{
		db:          db,
		cfg:         cfg,
		sessionTTL:  sessionTTL,
		sessions:    sessions,
		paymentRepo: paymentRepo,
		serviceRepo: serviceRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}, nil
}

// CreateCheckout opens a pending payment and an ephemeral checkout session,
// then builds the signed redirect URL. The test request itself is created
// only after the gateway confirms success.
func (p *PaymentService) CreateCheckout(ctx context.Context, accountID uuid.UUID, req request_models.CheckoutRequest, clientIP string) (*response_models.CheckoutResponse, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service id", utils.ErrValidation)
	}

	method, err := db_models.ParseCollectionMethod(req.CollectionMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	var appointment *time.Time
	if req.Appointment != "" {
		t, err := time.Parse(time.RFC3339, req.Appointment)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid appointment timestamp", utils.ErrValidation)
		}
		appointment = &t
	}
	if method == db_models.CollectionFacility && appointment == nil {
		return nil, fmt.Errorf("%w: appointment is required for facility collection", utils.ErrValidation)
	}

	service, err := p.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if service == nil || !service.Active {
		return nil, utils.ErrNotFound
	}

	suffix, err := utils.GenerateSecureToken(4)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	txnRef := fmt.Sprintf("TXN%d%s", time.Now().UnixNano()/int64(time.Millisecond), suffix)

	payment := &db_models.Payment{
		AccountID: accountID,
		ServiceID: service.ID,
		Amount:    service.Price,
		Method:    "VNPay",
		TxnRef:    txnRef,
		Status:    db_models.PaymentPending,
	}
	if err := p.paymentRepo.Insert(ctx, payment); err != nil {
		return nil, utils.ErrDatabaseError
	}

	p.sessions.Set(txnRef, mem.CheckoutSession{
		PaymentID:        payment.ID,
		AccountID:        accountID,
		ServiceID:        service.ID,
		CollectionMethod: string(method),
		Appointment:      appointment,
	}, p.sessionTTL)

	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"vnp_Version":    vnpay.Version,
		"vnp_Command":    vnpay.CommandPay,
		"vnp_TmnCode":    p.cfg.TmnCode,
		"vnp_Locale":     vnpay.LocaleVN,
		"vnp_CurrCode":   vnpay.CurrencyVND,
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  fmt.Sprintf("Thanh toan xet nghiem DNA - %s", service.Name),
		"vnp_OrderType":  "billpayment",
		"vnp_Amount":     fmt.Sprintf("%d", service.Price*100),
		"vnp_ReturnUrl":  p.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": utils.FormatVNPayTime(time.Now()),
	}

	paymentURL, err := p.cfg.BuildPaymentURL(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	return &response_models.CheckoutResponse{
		PaymentURL: paymentURL,
		TxnRef:     txnRef,
		Amount:     service.Price,
	}, nil
}

// HandleGatewayReturn verifies the signed callback and settles the checkout.
// A valid signature with response code 00 materializes exactly one test
// request from the session; anything else marks the payment failed. The
// session is discarded either way.
func (p *PaymentService) HandleGatewayReturn(ctx context.Context, query url.Values) (*response_models.GatewayOutcome, error) {
	if !p.cfg.VerifyReturn(query) {
		p.logger.Warn("gateway return with invalid signature",
			zap.String("txn_ref", query.Get("vnp_TxnRef")))
		return nil, utils.ErrInvalidSignature
	}

	txnRef := query.Get("vnp_TxnRef")
	payment, err := p.paymentRepo.FindByTxnRef(ctx, txnRef)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if payment == nil {
		return nil, utils.ErrNotFound
	}

	session, ok := p.sessions.Consume(txnRef)
	if !ok {
		p.logger.Warn("gateway return for expired or unknown session", zap.String("txn_ref", txnRef))
		return nil, utils.ErrNotFound
	}

	receipt, _ := json.Marshal(flattenQuery(query))

	if query.Get("vnp_ResponseCode") != vnpay.ResponseCodeSuccess {
		if err := p.paymentRepo.MarkFailed(ctx, payment.ID, receipt); err != nil {
			return nil, utils.ErrDatabaseError
		}
		return &response_models.GatewayOutcome{Success: false, TxnRef: txnRef}, nil
	}

	// Idempotency: a replayed success callback must not create a second
	// request. The consumed session already guards this in-process; the
	// status check guards a replay racing the first settle.
	if payment.Status == db_models.PaymentCompleted {
		return &response_models.GatewayOutcome{Success: true, TxnRef: txnRef}, nil
	}

	var requestID uuid.UUID
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.paymentRepo.MarkCompletedTx(tx, payment.ID, query.Get("vnp_TransactionNo"), receipt, time.Now().Unix()); err != nil {
			return err
		}

		var appointment *time.Time
		if session.Appointment != nil {
			t := *session.Appointment
			appointment = &t
		}

		request := &db_models.TestRequest{
			AccountID:        session.AccountID,
			ServiceID:        session.ServiceID,
			CollectionMethod: db_models.CollectionMethod(session.CollectionMethod),
			Appointment:      appointment,
			Status:           db_models.StatusInputInfo,
			PaymentID:        &payment.ID,
		}
		if err := p.requestRepo.InsertTx(tx, request); err != nil {
			return err
		}
		requestID = request.ID

		return p.paymentRepo.LinkRequestTx(tx, payment.ID, request.ID)
	})
	if err != nil {
		p.logger.Error("failed to settle payment", zap.String("txn_ref", txnRef), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	p.logger.Info("payment settled, test request created",
		zap.String("txn_ref", txnRef),
		zap.String("request_id", requestID.String()))

	return &response_models.GatewayOutcome{
		Success:       true,
		TxnRef:        txnRef,
		TestRequestID: requestID.String(),
	}, nil
}

func flattenQuery(query url.Values) map[string]string {
	out := make(map[string]string, len(query))
	for k := range query {
		out[k] = query.Get(k)
	}
	return out
}
