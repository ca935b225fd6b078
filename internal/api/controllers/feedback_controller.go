package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bloodline/internal/models/request_models"
	"bloodline/internal/services"
	"bloodline/pkg/utils"
	"bloodline/pkg/validator"
)

type FeedbackController struct {
	feedbackService services.FeedbackServiceInterface
}

func NewFeedbackController(feedbackService services.FeedbackServiceInterface) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// AddFeedback godoc
// @Summary Rate a verified test result
// @Description One feedback per customer per result. The result must belong to the caller and be verified.
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.AddFeedbackRequest true "Feedback payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /feedback [post]
func (f *FeedbackController) AddFeedback(c *gin.Context) {
	var req request_models.AddFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	feedback, err := f.feedbackService.AddFeedback(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feedback, "Feedback submitted")
}

// ListMine godoc
// @Summary List the authenticated customer's feedback
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /feedback/mine [get]
func (f *FeedbackController) ListMine(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	feedbacks, err := f.feedbackService.ListMine(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feedbacks, "")
}

// ListPublic godoc
// @Summary List recent public feedback
// @Tags Feedback
// @Produce json
// @Param minRating query int false "Minimum rating filter (1-5)"
// @Success 200 {object} utils.APIResponse
// @Router /feedback [get]
func (f *FeedbackController) ListPublic(c *gin.Context) {
	minRating, _ := strconv.Atoi(c.DefaultQuery("minRating", "4"))

	feedbacks, err := f.feedbackService.ListPublic(c.Request.Context(), minRating)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, feedbacks, "")
}
