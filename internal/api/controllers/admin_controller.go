package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bloodline/internal/models/request_models"
	"bloodline/internal/services"
	"bloodline/pkg/utils"
	"bloodline/pkg/validator"
)

type AdminController struct {
	authService services.AuthServiceInterface
}

func NewAdminController(authService services.AuthServiceInterface) *AdminController {
	return &AdminController{authService: authService}
}

// ListAccounts godoc
// @Summary List all accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /admin/accounts [get]
func (a *AdminController) ListAccounts(c *gin.Context) {
	accounts, err := a.authService.ListAccounts(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, accounts, "")
}

// AssignRole godoc
// @Summary Reassign an account's role
// @Description Only the default admin account may change roles.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body request_models.AssignRoleRequest true "Role payload"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /admin/accounts/{id}/role [put]
func (a *AdminController) AssignRole(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	var req request_models.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := a.authService.AssignRole(c.Request.Context(), accountID, req.Role); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Role updated")
}
