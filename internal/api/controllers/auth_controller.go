package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodline/internal/models/request_models"
	"bloodline/internal/services"
	"bloodline/pkg/utils"
	"bloodline/pkg/validator"
)

type AuthController struct {
	authService services.AuthServiceInterface
}

func NewAuthController(authService services.AuthServiceInterface) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	account, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, account, "Account created successfully")
}

// Login godoc
// @Summary Authenticate and receive a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	result, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Login successful")
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/refresh [post]
func (a *AuthController) Refresh(c *gin.Context) {
	var req request_models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	result, err := a.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Token refreshed")
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LogoutRequest true "Logout payload"
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (a *AuthController) Logout(c *gin.Context) {
	var req request_models.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := a.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Logged out")
}

// ChangePassword godoc
// @Summary Change the authenticated account's password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.ChangePasswordRequest true "Password change payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/change-password [post]
func (a *AuthController) ChangePassword(c *gin.Context) {
	var req request_models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	if err := a.authService.ChangePassword(c.Request.Context(), accountID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Password changed")
}

// GetProfile godoc
// @Summary Get the authenticated account's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /auth/profile [get]
func (a *AuthController) GetProfile(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	profile, err := a.authService.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "")
}

// UpdateProfile godoc
// @Summary Update the authenticated account's profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} utils.APIResponse
// @Router /auth/profile [put]
func (a *AuthController) UpdateProfile(c *gin.Context) {
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	if err := a.authService.UpdateProfile(c.Request.Context(), accountID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Profile updated")
}
