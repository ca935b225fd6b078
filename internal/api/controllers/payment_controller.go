package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodline/internal/models/request_models"
	"bloodline/internal/services"
	"bloodline/pkg/utils"
	"bloodline/pkg/validator"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Checkout godoc
// @Summary Start a paid booking
// @Description Creates a pending payment and returns the signed VNPay redirect URL. The test request is created only after the gateway confirms payment.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CheckoutRequest true "Checkout payload"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /payments/checkout [post]
func (p *PaymentController) Checkout(c *gin.Context) {
	var req request_models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	accountID, ok := currentAccountID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims")
		return
	}

	result, err := p.paymentService.CreateCheckout(c.Request.Context(), accountID, req, c.ClientIP())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Checkout created")
}

// GatewayReturn godoc
// @Summary VNPay return endpoint
// @Description Verifies the gateway signature and settles the checkout. Unauthenticated; trust comes from the HMAC, not a session.
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /payments/vnpay-return [get]
func (p *PaymentController) GatewayReturn(c *gin.Context) {
	outcome, err := p.paymentService.HandleGatewayReturn(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if !outcome.Success {
		utils.RespondSuccess(c, outcome, "Payment was not completed")
		return
	}
	utils.RespondSuccess(c, outcome, "Payment completed")
}
