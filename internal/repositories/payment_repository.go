package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *db_models.Payment) error
	FindByTxnRef(ctx context.Context, txnRef string) (*db_models.Payment, error)
	MarkCompletedTx(tx *gorm.DB, id uuid.UUID, gatewayTxnNo string, receipt []byte, paidAt int64) error
	MarkFailed(ctx context.Context, id uuid.UUID, receipt []byte) error
	LinkRequestTx(tx *gorm.DB, id uuid.UUID, requestID uuid.UUID) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (p *paymentRepository) Insert(ctx context.Context, payment *db_models.Payment) error {
	return p.db.WithContext(ctx).Create(payment).Error
}

func (p *paymentRepository) FindByTxnRef(ctx context.Context, txnRef string) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := p.db.WithContext(ctx).First(&payment, "txn_ref = ?", txnRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (p *paymentRepository) MarkCompletedTx(tx *gorm.DB, id uuid.UUID, gatewayTxnNo string, receipt []byte, paidAt int64) error {
	return tx.Model(&db_models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         db_models.PaymentCompleted,
			"gateway_txn_no": gatewayTxnNo,
			"receipt":        receipt,
			"paid_at":        paidAt,
		}).Error
}

func (p *paymentRepository) MarkFailed(ctx context.Context, id uuid.UUID, receipt []byte) error {
	return p.db.WithContext(ctx).Model(&db_models.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  db_models.PaymentFailed,
			"receipt": receipt,
		}).Error
}

func (p *paymentRepository) LinkRequestTx(tx *gorm.DB, id uuid.UUID, requestID uuid.UUID) error {
	return tx.Model(&db_models.Payment{}).
		Where("id = ?", id).
		Update("test_request_id", requestID).Error
}
