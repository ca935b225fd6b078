package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bloodline/internal/models/request_models"
	"bloodline/internal/services"
	"bloodline/pkg/utils"
	"bloodline/pkg/validator"
)

type TestRequestController struct {
	lifecycleService services.LifecycleServiceInterface
	reportService    services.ReportServiceInterface
}

func NewTestRequestController(
	lifecycleService services.LifecycleServiceInterface,
	reportService services.ReportServiceInterface,
) *TestRequestController {
	return &TestRequestController{
		lifecycleService: lifecycleService,
		reportService:    reportService,
	}
}

func (t *TestRequestController) requestAndActor(c *gin.Context) (uuid.UUID, services.Actor, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request id")
		return uuid.Nil, services.Actor{}, false
	}
	actor, ok := currentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return uuid.Nil, services.Actor{}, false
	}
	return id, actor, true
}

// ListMine godoc
// @Summary List the authenticated customer's test requests
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /requests [get]
func (t *TestRequestController) ListMine(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	requests, err := t.lifecycleService.ListByCustomer(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, requests, "")
}

// GetDetail godoc
// @Summary Get one test request with samples and result
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /requests/{id} [get]
func (t *TestRequestController) GetDetail(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	detail, err := t.lifecycleService.GetRequestDetail(c.Request.Context(), id, actor)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "")
}

// SubmitSample godoc
// @Summary Submit one sample for a request awaiting input
// @Description The request moves to Pending once all required samples are in.
// @Tags TestRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body request_models.SubmitSampleRequest true "Sample payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /requests/{id}/samples [post]
func (t *TestRequestController) SubmitSample(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	var req request_models.SubmitSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	detail, err := t.lifecycleService.ApplyTransition(c.Request.Context(), id, actor, services.EventSubmitSample, services.SubmitSamplePayload{
		TesterName:     req.TesterName,
		NationalID:     req.NationalID,
		BirthYear:      req.BirthYear,
		Gender:         req.Gender,
		Relationship:   req.Relationship,
		SampleType:     req.SampleType,
		SignatureImage: req.SignatureImage,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Sample submitted")
}

// Cancel godoc
// @Summary Cancel a test request
// @Description Customers may cancel their own requests; staff and managers may cancel any. Completed and Cancelled requests cannot be cancelled.
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /requests/{id}/cancel [post]
func (t *TestRequestController) Cancel(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	detail, err := t.lifecycleService.ApplyTransition(c.Request.Context(), id, actor, services.EventCancel, nil)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Request cancelled")
}

// ListPending godoc
// @Summary List requests awaiting staff confirmation
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /staff/requests/pending [get]
func (t *TestRequestController) ListPending(c *gin.Context) {
	requests, err := t.lifecycleService.ListPending(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, requests, "")
}

// ListAssigned godoc
// @Summary List requests assigned to the authenticated staff member
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /staff/requests/assigned [get]
func (t *TestRequestController) ListAssigned(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	requests, err := t.lifecycleService.ListByAssignedStaff(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, requests, "")
}

// Confirm godoc
// @Summary Confirm a pending request
// @Description Assigns the acting staff member and creates the kit record or facility visit for the request's collection method.
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /staff/requests/{id}/confirm [post]
func (t *TestRequestController) Confirm(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	detail, err := t.lifecycleService.ApplyTransition(c.Request.Context(), id, actor, services.EventConfirm, nil)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Request confirmed")
}

// MarkInProgress godoc
// @Summary Mark a confirmed request as in progress
// @Tags TestRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} utils.APIResponse
// @Router /staff/requests/{id}/in-progress [post]
func (t *TestRequestController) MarkInProgress(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	detail, err := t.lifecycleService.ApplyTransition(c.Request.Context(), id, actor, services.EventMarkInProgress, nil)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Request in progress")
}

// EnterResult godoc
// @Summary Enter the test result for an in-progress request
// @Description At most one result per request. The request moves to PendingManagerApproval.
// @Tags TestRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body request_models.CreateResultRequest true "Result payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /staff/requests/{id}/result [post]
func (t *TestRequestController) EnterResult(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	var req request_models.CreateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	detail, err := t.lifecycleService.ApplyTransition(c.Request.Context(), id, actor, services.EventEnterResult, services.EnterResultPayload{
		Payload: req.Payload,
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Result entered")
}

// VerifyResult godoc
// @Summary Approve or reject a result awaiting manager approval
// @Description Approval completes the request and notifies the customer. Rejection sends the request back to InProgress for re-entry.
// @Tags TestRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body request_models.VerifyResultRequest true "Verdict payload"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /manager/requests/{id}/verify [post]
func (t *TestRequestController) VerifyResult(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	var req request_models.VerifyResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	event := services.EventApproveResult
	if req.Action == "reject" {
		event = services.EventRejectResult
	}

	detail, err := t.lifecycleService.ApplyTransition(c.Request.Context(), id, actor, event, nil)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Verdict recorded")
}

// DownloadReport godoc
// @Summary Download the verified result as a PDF report
// @Tags TestRequests
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {file} binary
// @Failure 409 {object} utils.APIResponse
// @Router /requests/{id}/report [get]
func (t *TestRequestController) DownloadReport(c *gin.Context) {
	id, actor, ok := t.requestAndActor(c)
	if !ok {
		return
	}

	pdf, err := t.reportService.GenerateResultPDF(c.Request.Context(), actor, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="result-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
