package feedback_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/repositories"
	"bloodline/internal/services"
)

var Module = fx.Provide(
	provideFeedbackRepo, provideFeedbackService)

func provideFeedbackRepo(db *gorm.DB) repositories.FeedbackRepository {
	return repositories.NewFeedbackRepository(db)
}

func provideFeedbackService(
	feedbackRepo repositories.FeedbackRepository,
	resultRepo repositories.TestResultRepository,
	requestRepo repositories.TestRequestRepository,
	logger *zap.Logger,
) services.FeedbackServiceInterface {
	return services.NewFeedbackService(feedbackRepo, resultRepo, requestRepo, logger)
}
