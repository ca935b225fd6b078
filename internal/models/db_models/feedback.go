package db_models

import (
	"github.com/google/uuid"
)

// Feedback belongs to exactly one verified result and one account. One
// feedback per (account, result) pair; a duplicate submission is rejected,
// not merged.
type Feedback struct {
	BaseModel
	AccountID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_feedback_account_result"`
	TestResultID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_feedback_account_result"`
	Rating       int       `gorm:"check:rating >= 1 AND rating <= 5"`
	Comment      string    `gorm:"type:text"`
}
