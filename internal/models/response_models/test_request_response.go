package response_models

import (
	"time"

	"github.com/google/uuid"

	"bloodline/internal/models/db_models"
)

// TestRequestDetail is the one projection shared by every read endpoint and
// by the lifecycle transition result, so writers and readers see the same
// shape.
type TestRequestDetail struct {
	ID               uuid.UUID  `json:"id"`
	Status           string     `json:"status"`
	CollectionMethod string     `json:"collectionMethod"`
	Appointment      *time.Time `json:"appointment,omitempty"`
	AssignedStaffID  *uuid.UUID `json:"assignedStaffId,omitempty"`
	CreatedAt        int64      `json:"createdAt"`
	UpdatedAt        int64      `json:"updatedAt"`

	Service  ServiceSummary  `json:"service"`
	Customer CustomerSummary `json:"customer"`

	RequiredSamples int             `json:"requiredSamples"`
	Samples         []SampleSummary `json:"samples"`
	Result          *ResultSummary  `json:"result,omitempty"`
	KitCode         string          `json:"kitCode,omitempty"`
}

type ServiceSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Price       int64     `json:"price"`
	SampleCount int       `json:"sampleCount"`
}

type CustomerSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName,omitempty"`
}

type SampleSummary struct {
	ID           uuid.UUID `json:"id"`
	TesterName   string    `json:"testerName"`
	BirthYear    int       `json:"birthYear"`
	Gender       string    `json:"gender"`
	Relationship string    `json:"relationship"`
	SampleType   string    `json:"sampleType"`
}

type ResultSummary struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	EnteredBy   uuid.UUID  `json:"enteredBy"`
	EnteredAt   int64      `json:"enteredAt"`
	ConfirmedBy *uuid.UUID `json:"confirmedBy,omitempty"`
	ConfirmedAt *int64     `json:"confirmedAt,omitempty"`
}

func NewTestRequestDetail(req *db_models.TestRequest, kitCode string) *TestRequestDetail {
	detail := &TestRequestDetail{
		ID:               req.ID,
		Status:           string(req.Status),
		CollectionMethod: string(req.CollectionMethod),
		Appointment:      req.Appointment,
		AssignedStaffID:  req.AssignedStaffID,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
		Service: ServiceSummary{
			ID:          req.Service.ID,
			Name:        req.Service.Name,
			Type:        string(req.Service.Type),
			Price:       req.Service.Price,
			SampleCount: req.Service.SampleCount,
		},
		Customer: CustomerSummary{
			ID:    req.Account.ID,
			Email: req.Account.Email,
		},
		RequiredSamples: req.Service.SampleCount,
		Samples:         make([]SampleSummary, 0, len(req.Samples)),
		KitCode:         kitCode,
	}

	if req.Account.Profile != nil {
		detail.Customer.FullName = req.Account.Profile.FullName
	}

	for _, s := range req.Samples {
		detail.Samples = append(detail.Samples, SampleSummary{
			ID:           s.ID,
			TesterName:   s.TesterName,
			BirthYear:    s.BirthYear,
			Gender:       s.Gender,
			Relationship: s.Relationship,
			SampleType:   s.SampleType,
		})
	}

	if req.Result != nil {
		detail.Result = &ResultSummary{
			ID:          req.Result.ID,
			Status:      string(req.Result.Status),
			EnteredBy:   req.Result.EnteredBy,
			EnteredAt:   req.Result.EnteredAt,
			ConfirmedBy: req.Result.ConfirmedBy,
			ConfirmedAt: req.Result.ConfirmedAt,
		}
	}

	return detail
}
