package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type RefreshTokenRepository interface {
	Insert(ctx context.Context, token *db_models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*db_models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForAccount(ctx context.Context, accountID uuid.UUID) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Insert(ctx context.Context, token *db_models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*db_models.RefreshToken, error) {
	var record db_models.RefreshToken
	err := r.db.WithContext(ctx).First(&record, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

func (r *refreshTokenRepository) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.RefreshToken{}).
		Where("account_id = ? AND revoked = ?", accountID, false).
		Update("revoked", true).Error
}
