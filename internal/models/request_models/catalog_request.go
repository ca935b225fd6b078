package request_models

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Type        string `json:"type" binding:"required,oneof=Administrative Civil"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	SampleCount int    `json:"sampleCount" binding:"required,min=2,max=3"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Price       *int64  `json:"price" binding:"omitempty,gt=0"`
	SampleCount *int    `json:"sampleCount" binding:"omitempty,min=2,max=3"`
	Active      *bool   `json:"active"`
}
