package db_models

import (
	"github.com/google/uuid"
)

// RefreshToken is persisted so a session can be revoked server-side before
// its expiry.
type RefreshToken struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index"`
	Token     string    `gorm:"uniqueIndex;size:512"`
	ExpiresAt int64
	Revoked   bool `gorm:"default:false"`
}
