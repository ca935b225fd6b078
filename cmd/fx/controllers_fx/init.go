package controllers_fx

import (
	"go.uber.org/fx"

	"bloodline/internal/api/controllers"
)

var Module = fx.Provide(
	controllers.NewAuthController,
	controllers.NewAdminController,
	controllers.NewServiceController,
	controllers.NewTestRequestController,
	controllers.NewPaymentController,
	controllers.NewFeedbackController,
)
