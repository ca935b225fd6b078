package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResultStatus string

const (
	ResultPending  ResultStatus = "Pending"
	ResultVerified ResultStatus = "Verified"
	ResultRejected ResultStatus = "Rejected"
)

// TestResult is 1:1 with TestRequest, enforced at the application level: a
// second insert for the same request is a conflict, never an update. Rejection
// keeps the row (status Rejected) so the audit trail survives.
type TestResult struct {
	BaseModel
	TestRequestID uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	EnteredBy     uuid.UUID      `gorm:"type:uuid"`
	EnteredAt     int64
	Status        ResultStatus `gorm:"size:16;index"`
	ConfirmedBy   *uuid.UUID   `gorm:"type:uuid"`
	ConfirmedAt   *int64
}
