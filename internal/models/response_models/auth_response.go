package response_models

import "github.com/google/uuid"

type AccountResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	FullName string    `json:"fullName,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Address  string    `json:"address,omitempty"`
}

type LoginResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	Profile      AccountResponse `json:"profile"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
