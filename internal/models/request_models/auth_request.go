package request_models

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=64"`
	FullName    string `json:"fullName" binding:"required,min=2,max=100"`
	Phone       string `json:"phone" binding:"required,numeric,min=9,max=11"`
	Address     string `json:"address" binding:"omitempty,max=255"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=64"`
}

type UpdateProfileRequest struct {
	FullName       string `json:"fullName" binding:"omitempty,min=2,max=100"`
	Phone          string `json:"phone" binding:"omitempty,numeric,min=9,max=11"`
	Address        string `json:"address" binding:"omitempty,max=255"`
	DateOfBirth    string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	SignatureImage string `json:"signatureImage" binding:"omitempty"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Admin Manager Staff Customer"`
}
