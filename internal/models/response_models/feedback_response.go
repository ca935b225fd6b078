package response_models

import "github.com/google/uuid"

type FeedbackResponse struct {
	ID           uuid.UUID `json:"id"`
	TestResultID uuid.UUID `json:"testResultId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    int64     `json:"createdAt"`
	ServiceName  string    `json:"serviceName,omitempty"`
}
