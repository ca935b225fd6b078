package request_models

import "encoding/json"

type CheckoutRequest struct {
	ServiceID        string `json:"serviceId" binding:"required,uuid"`
	CollectionMethod string `json:"collectionMethod" binding:"required,oneof=Home Facility"`
	// Appointment is required for Facility collection, ignored for Home.
	Appointment string `json:"appointment" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type SubmitSampleRequest struct {
	TesterName     string `json:"testerName" binding:"required,min=2,max=100"`
	NationalID     string `json:"nationalId" binding:"required,min=9,max=12,numeric"`
	BirthYear      int    `json:"birthYear" binding:"required,min=1900,max=2100"`
	Gender         string `json:"gender" binding:"required,oneof=Male Female Other"`
	Relationship   string `json:"relationship" binding:"required,max=100"`
	SampleType     string `json:"sampleType" binding:"required,max=100"`
	SignatureImage string `json:"signatureImage" binding:"omitempty"`
}

type CreateResultRequest struct {
	Payload json.RawMessage `json:"payload" binding:"required"`
}

type VerifyResultRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

type AddFeedbackRequest struct {
	TestResultID string `json:"testResultId" binding:"required,uuid"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment" binding:"required,min=20,max=50"`
}
