package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	ListAll(ctx context.Context) ([]db_models.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role db_models.Role) error
	UpsertProfile(ctx context.Context, profile *db_models.UserProfile) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).Preload("Profile").First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).Preload("Profile").First(&account, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (a *accountRepository) ListAll(ctx context.Context) ([]db_models.Account, error) {
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).Preload("Profile").Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (a *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (a *accountRepository) UpdateRole(ctx context.Context, id uuid.UUID, role db_models.Role) error {
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *accountRepository) UpsertProfile(ctx context.Context, profile *db_models.UserProfile) error {
	var existing db_models.UserProfile
	err := a.db.WithContext(ctx).First(&existing, "account_id = ?", profile.AccountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a.db.WithContext(ctx).Create(profile).Error
	}
	if err != nil {
		return err
	}

	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	return a.db.WithContext(ctx).Model(&existing).Updates(profile).Error
}
