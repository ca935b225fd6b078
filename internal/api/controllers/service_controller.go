package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/services"
	"bloodline/pkg/middleware"
	"bloodline/pkg/utils"
	"bloodline/pkg/validator"
)

type ServiceController struct {
	catalogService services.CatalogServiceInterface
}

func NewServiceController(catalogService services.CatalogServiceInterface) *ServiceController {
	return &ServiceController{catalogService: catalogService}
}

// ListServices godoc
// @Summary List DNA testing services
// @Description Public callers see the active catalog. Admins get deactivated entries too with ?all=true.
// @Tags Services
// @Produce json
// @Param all query bool false "Include inactive services (admin only)"
// @Success 200 {object} utils.APIResponse
// @Router /services [get]
func (s *ServiceController) ListServices(c *gin.Context) {
	includeInactive := c.Query("all") == "true" &&
		strings.EqualFold(c.GetString(middleware.ContextRole), string(db_models.RoleAdmin))

	services, err := s.catalogService.ListServices(c.Request.Context(), includeInactive)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, services, "")
}

// GetService godoc
// @Summary Get one service by id
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /services/{id} [get]
func (s *ServiceController) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid service id")
		return
	}

	service, err := s.catalogService.GetService(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, service, "")
}

// CreateService godoc
// @Summary Create a catalog entry
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateServiceRequest true "Service payload"
// @Success 200 {object} utils.APIResponse
// @Router /services [post]
func (s *ServiceController) CreateService(c *gin.Context) {
	var req request_models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	service, err := s.catalogService.CreateService(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, service, "Service created")
}

// UpdateService godoc
// @Summary Update a catalog entry
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body request_models.UpdateServiceRequest true "Service payload"
// @Success 200 {object} utils.APIResponse
// @Router /services/{id} [put]
func (s *ServiceController) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid service id")
		return
	}

	var req request_models.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	service, err := s.catalogService.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, service, "Service updated")
}

// DeactivateService godoc
// @Summary Deactivate a catalog entry
// @Description Soft delete. Existing requests keep their reference.
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} utils.APIResponse
// @Router /services/{id} [delete]
func (s *ServiceController) DeactivateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid service id")
		return
	}

	if err := s.catalogService.DeactivateService(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Service deactivated")
}
