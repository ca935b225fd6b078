package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/models/response_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

// The public widget shows the latest top-rated entries only.
const publicFeedbackLimit = 5

type FeedbackServiceInterface interface {
	AddFeedback(ctx context.Context, accountID uuid.UUID, req request_models.AddFeedbackRequest) (*response_models.FeedbackResponse, error)
	ListMine(ctx context.Context, accountID uuid.UUID) ([]response_models.FeedbackResponse, error)
	ListPublic(ctx context.Context, minRating int) ([]response_models.FeedbackResponse, error)
}

type FeedbackService struct {
	feedbackRepo repositories.FeedbackRepository
	resultRepo   repositories.TestResultRepository
	requestRepo  repositories.TestRequestRepository
	logger       *zap.Logger
}

func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepository,
	resultRepo repositories.TestResultRepository,
	requestRepo repositories.TestRequestRepository,
	logger *zap.Logger,
) FeedbackServiceInterface {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		resultRepo:   resultRepo,
		requestRepo:  requestRepo,
		logger:       logger,
	}
}

// AddFeedback accepts one rating per customer per verified result. Ownership
// is resolved through the result's request, not trusted from the payload.
func (f *FeedbackService) AddFeedback(ctx context.Context, accountID uuid.UUID, req request_models.AddFeedbackRequest) (*response_models.FeedbackResponse, error) {
	resultID, err := uuid.Parse(req.TestResultID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid test result id", utils.ErrValidation)
	}

	result, err := f.resultRepo.FindByID(ctx, resultID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if result == nil {
		return nil, utils.ErrNotFound
	}

	request, err := f.requestRepo.FindByID(ctx, result.TestRequestID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if request == nil {
		return nil, utils.ErrNotFound
	}
	if request.AccountID != accountID {
		return nil, utils.ErrForbidden
	}

	if result.Status != db_models.ResultVerified {
		return nil, fmt.Errorf("%w: result is not verified yet", utils.ErrInvalidState)
	}

	exists, err := f.feedbackRepo.ExistsForAccountAndResult(ctx, accountID, resultID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if exists {
		return nil, fmt.Errorf("%w: feedback already submitted for this result", utils.ErrDuplicateEntry)
	}

	feedback := &db_models.Feedback{
		AccountID:    accountID,
		TestResultID: resultID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := f.feedbackRepo.Insert(ctx, feedback); err != nil {
		return nil, utils.ErrDatabaseError
	}

	f.logger.Info("feedback submitted",
		zap.String("account_id", accountID.String()),
		zap.String("result_id", resultID.String()),
		zap.Int("rating", req.Rating))

	return &response_models.FeedbackResponse{
		ID:           feedback.ID,
		TestResultID: feedback.TestResultID,
		Rating:       feedback.Rating,
		Comment:      feedback.Comment,
		CreatedAt:    feedback.CreatedAt,
		ServiceName:  request.Service.Name,
	}, nil
}

func (f *FeedbackService) ListMine(ctx context.Context, accountID uuid.UUID) ([]response_models.FeedbackResponse, error) {
	feedbacks, err := f.feedbackRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toFeedbackResponses(feedbacks), nil
}

func (f *FeedbackService) ListPublic(ctx context.Context, minRating int) ([]response_models.FeedbackResponse, error) {
	if minRating < 1 || minRating > 5 {
		minRating = 4
	}
	feedbacks, err := f.feedbackRepo.ListPublic(ctx, minRating, publicFeedbackLimit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toFeedbackResponses(feedbacks), nil
}

func toFeedbackResponses(feedbacks []db_models.Feedback) []response_models.FeedbackResponse {
	responses := make([]response_models.FeedbackResponse, 0, len(feedbacks))
	for _, fb := range feedbacks {
		responses = append(responses, response_models.FeedbackResponse{
			ID:           fb.ID,
			TestResultID: fb.TestResultID,
			Rating:       fb.Rating,
			Comment:      fb.Comment,
			CreatedAt:    fb.CreatedAt,
		})
	}
	return responses
}
