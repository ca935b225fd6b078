package response_models

import (
	"github.com/google/uuid"

	"bloodline/internal/models/db_models"
)

type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	SampleCount int       `json:"sampleCount"`
	Active      bool      `json:"active"`
	CreatedAt   int64     `json:"createdAt"`
}

func NewServiceResponse(service *db_models.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID,
		Name:        service.Name,
		Type:        string(service.Type),
		Description: service.Description,
		Price:       service.Price,
		SampleCount: service.SampleCount,
		Active:      service.Active,
		CreatedAt:   service.CreatedAt,
	}
}
