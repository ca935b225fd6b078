package db_models

import (
	"time"

	"github.com/google/uuid"
)

type KitStatus string

const (
	KitGenerated KitStatus = "Generated"
	KitSent      KitStatus = "Sent"
	KitReceived  KitStatus = "Received"
)

// KitRecord tracks the physical home-collection package. Created when staff
// confirm a Home-collection request.
type KitRecord struct {
	BaseModel
	TestRequestID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	KitCode       string    `gorm:"uniqueIndex;size:32"`
	Status        KitStatus `gorm:"size:16"`
}

// FacilityVisit is the Facility-collection counterpart of KitRecord.
type FacilityVisit struct {
	BaseModel
	TestRequestID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	ScheduledAt   *time.Time
	Location      string
}
