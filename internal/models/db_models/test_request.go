package db_models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the closed status enum for a test request. The stored
// strings are canonical; unknown values are rejected at the boundary.
type RequestStatus string

const (
	StatusInputInfo              RequestStatus = "InputInfo"
	StatusPending                RequestStatus = "Pending"
	StatusConfirmed              RequestStatus = "Confirmed"
	StatusInProgress             RequestStatus = "InProgress"
	StatusPendingManagerApproval RequestStatus = "PendingManagerApproval"
	StatusCompleted              RequestStatus = "Completed"
	StatusCancelled              RequestStatus = "Cancelled"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	for _, st := range []RequestStatus{
		StatusInputInfo, StatusPending, StatusConfirmed, StatusInProgress,
		StatusPendingManagerApproval, StatusCompleted, StatusCancelled,
	} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// Terminal reports whether no further transition may leave this status.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type CollectionMethod string

const (
	CollectionHome     CollectionMethod = "Home"
	CollectionFacility CollectionMethod = "Facility"
)

func ParseCollectionMethod(s string) (CollectionMethod, error) {
	for _, m := range []CollectionMethod{CollectionHome, CollectionFacility} {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown collection method %q", s)
}

// TestRequest is one customer's DNA-testing order. Status moves forward along
// the lifecycle graph; the only backward edge is manager rejection, which
// returns a result-bearing request to InProgress.
type TestRequest struct {
	BaseModel
	AccountID        uuid.UUID        `gorm:"type:uuid;index"`
	ServiceID        uuid.UUID        `gorm:"type:uuid;index"`
	CollectionMethod CollectionMethod `gorm:"size:16"`
	Appointment      *time.Time
	Status           RequestStatus `gorm:"size:32;index"`
	// AssignedStaffID is set from Confirmed onward.
	AssignedStaffID *uuid.UUID `gorm:"type:uuid;index"`
	PaymentID       *uuid.UUID `gorm:"type:uuid"`

	Account Account          `gorm:"foreignKey:AccountID"`
	Service Service          `gorm:"foreignKey:ServiceID"`
	Samples []SampleCategory `gorm:"foreignKey:TestRequestID"`
	Result  *TestResult      `gorm:"foreignKey:TestRequestID"`
}
