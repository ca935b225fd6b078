package db_models

import (
	"github.com/google/uuid"
)

// SampleCategory holds the subject metadata for one biological sample within a
// test request. The national ID is unique system-wide; the unique index is the
// enforcement point, the service-layer pre-check only gives a better error.
type SampleCategory struct {
	BaseModel
	TestRequestID  uuid.UUID `gorm:"type:uuid;index"`
	TesterName     string
	NationalID     string `gorm:"uniqueIndex;size:32"`
	BirthYear      int
	Gender         string `gorm:"size:16"`
	Relationship   string
	SampleType     string
	SignatureImage string `gorm:"type:text"`
}
