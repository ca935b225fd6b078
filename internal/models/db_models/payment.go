package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// Payment is one checkout attempt. The request it funds is created only after
// the gateway confirms success, so TestRequestID is linked after the fact.
type Payment struct {
	BaseModel
	AccountID     uuid.UUID  `gorm:"type:uuid;index"`
	ServiceID     uuid.UUID  `gorm:"type:uuid;index"`
	TestRequestID *uuid.UUID `gorm:"type:uuid;index"`

	// Amount is in VND.
	Amount int64
	Method string `gorm:"size:32"`

	// TxnRef is our vnp_TxnRef; GatewayTxnNo is the gateway's own reference,
	// filled in from the return callback.
	TxnRef       string `gorm:"uniqueIndex;size:64"`
	GatewayTxnNo string `gorm:"size:64"`

	Status PaymentStatus `gorm:"size:16;index"`
	PaidAt *int64

	// Raw return parameters for traceability.
	Receipt datatypes.JSON `gorm:"type:jsonb"`
}
