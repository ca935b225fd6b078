package bootstrap

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/config"
	"bloodline/internal/models/db_models"
	"bloodline/pkg/utils"
)

// SeedDefaultAdmin guarantees the bootstrap admin account exists. The role
// reassignment endpoint is gated on this account, so without it the platform
// has no way to promote the first manager or staff member.
func SeedDefaultAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("email = ?", cfg.DefaultAdminEmail).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &db_models.Account{
		Email:        cfg.DefaultAdminEmail,
		PasswordHash: hashed,
		Role:         db_models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}

	profile := &db_models.UserProfile{
		AccountID: admin.ID,
		FullName:  "System Administrator",
	}
	if err := db.WithContext(ctx).Create(profile).Error; err != nil {
		return err
	}

	logger.Info("default admin account created", zap.String("email", cfg.DefaultAdminEmail))
	return nil
}
