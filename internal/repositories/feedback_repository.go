package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type FeedbackRepository interface {
	Insert(ctx context.Context, feedback *db_models.Feedback) error
	ExistsForAccountAndResult(ctx context.Context, accountID, testResultID uuid.UUID) (bool, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Feedback, error)
	ListPublic(ctx context.Context, minRating, limit int) ([]db_models.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (f *feedbackRepository) Insert(ctx context.Context, feedback *db_models.Feedback) error {
	return f.db.WithContext(ctx).Create(feedback).Error
}

func (f *feedbackRepository) ExistsForAccountAndResult(ctx context.Context, accountID, testResultID uuid.UUID) (bool, error) {
	var count int64
	err := f.db.WithContext(ctx).
		Model(&db_models.Feedback{}).
		Where("account_id = ? AND test_result_id = ?", accountID, testResultID).
		Count(&count).Error
	return count > 0, err
}

func (f *feedbackRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Feedback, error) {
	var feedbacks []db_models.Feedback
	err := f.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}

func (f *feedbackRepository) ListPublic(ctx context.Context, minRating, limit int) ([]db_models.Feedback, error) {
	var feedbacks []db_models.Feedback
	err := f.db.WithContext(ctx).
		Where("rating >= ?", minRating).
		Order("created_at DESC").
		Limit(limit).
		Find(&feedbacks).Error
	return feedbacks, err
}
