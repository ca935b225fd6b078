package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/models/response_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AccountResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*response_models.RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, accountID uuid.UUID, req request_models.ChangePasswordRequest) error

	GetProfile(ctx context.Context, accountID uuid.UUID) (*response_models.AccountResponse, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, req request_models.UpdateProfileRequest) error
	ListAccounts(ctx context.Context) ([]response_models.AccountResponse, error)
	AssignRole(ctx context.Context, accountID uuid.UUID, role string) error
}

type AuthService struct {
	accountRepo repositories.AccountRepository
	tokenRepo   repositories.RefreshTokenRepository
	mailService IMailService
	accessTTL   time.Duration
	refreshTTL  time.Duration
	logger      *zap.Logger
}

func NewAuthService(
	accountRepo repositories.AccountRepository,
	tokenRepo repositories.RefreshTokenRepository,
	mailService IMailService,
	accessTTL, refreshTTL time.Duration,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		mailService: mailService,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		logger:      logger,
	}
}

func (a *AuthService) Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AccountResponse, error) {
	existing, err := a.accountRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	account := &db_models.Account{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         db_models.RoleCustomer,
	}
	if err := a.accountRepo.Insert(ctx, account); err != nil {
		return nil, utils.ErrDatabaseError
	}

	profile := &db_models.UserProfile{
		AccountID: account.ID,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if req.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		}
	}
	if err := a.accountRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, utils.ErrDatabaseError
	}

	if a.mailService != nil {
		go func(email, name string) {
			if err := a.mailService.SendWelcomeMail(email, name); err != nil {
				a.logger.Warn("welcome email failed", zap.String("email", email), zap.Error(err))
			}
		}(account.Email, req.FullName)
	}

	return &response_models.AccountResponse{
		ID:       account.ID,
		Email:    account.Email,
		Role:     string(account.Role),
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	}, nil
}

// Login returns ErrUnauthorized for both unknown email and wrong password;
// the two cases are distinguishable only in server-side logs.
func (a *AuthService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		a.logger.Info("login failed: unknown email", zap.String("email", req.Email))
		return nil, utils.ErrUnauthorized
	}

	if err := utils.ComparePasswords(account.PasswordHash, req.Password); err != nil {
		a.logger.Info("login failed: wrong password", zap.String("email", req.Email))
		return nil, utils.ErrUnauthorized
	}

	accessToken, err := utils.CreateAccessToken(account.ID, account.Email, string(account.Role), a.accessTTL)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	refreshToken, err := utils.CreateRefreshToken(account.ID, a.refreshTTL)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	record := &db_models.RefreshToken{
		AccountID: account.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(a.refreshTTL).Unix(),
	}
	if err := a.tokenRepo.Insert(ctx, record); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      toAccountResponse(account),
	}, nil
}

// Refresh checks the persisted token's revocation flag and expiry before
// issuing a fresh access token.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*response_models.RefreshResponse, error) {
	record, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if record == nil || record.Revoked || record.ExpiresAt < time.Now().Unix() {
		return nil, utils.ErrUnauthorized
	}

	account, err := a.accountRepo.FindByID(ctx, record.AccountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrUnauthorized
	}

	accessToken, err := utils.CreateAccessToken(account.ID, account.Email, string(account.Role), a.accessTTL)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.RefreshResponse{AccessToken: accessToken}, nil
}

func (a *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := a.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, req request_models.ChangePasswordRequest) error {
	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, req.OldPassword); err != nil {
		return utils.ErrUnauthorized
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if err := a.accountRepo.UpdatePassword(ctx, accountID, hashed); err != nil {
		return utils.ErrDatabaseError
	}

	// Changing the password invalidates every open session.
	if err := a.tokenRepo.RevokeAllForAccount(ctx, accountID); err != nil {
		return utils.ErrDatabaseError
	}

	if a.mailService != nil {
		name := ""
		if account.Profile != nil {
			name = account.Profile.FullName
		}
		go func(email, name string) {
			if err := a.mailService.SendPasswordChangedMail(email, name); err != nil {
				a.logger.Warn("password change email failed", zap.String("email", email), zap.Error(err))
			}
		}(account.Email, name)
	}

	return nil
}

func (a *AuthService) GetProfile(ctx context.Context, accountID uuid.UUID) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrNotFound
	}
	resp := toAccountResponse(account)
	return &resp, nil
}

func (a *AuthService) UpdateProfile(ctx context.Context, accountID uuid.UUID, req request_models.UpdateProfileRequest) error {
	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrNotFound
	}

	profile := &db_models.UserProfile{
		AccountID:      accountID,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Address:        req.Address,
		SignatureImage: req.SignatureImage,
	}
	if req.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			profile.DateOfBirth = &dob
		}
	}
	if err := a.accountRepo.UpsertProfile(ctx, profile); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AuthService) ListAccounts(ctx context.Context) ([]response_models.AccountResponse, error) {
	accounts, err := a.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, toAccountResponse(&accounts[i]))
	}
	return responses, nil
}

// AssignRole is reachable only through the default-admin gate; the capability
// check lives in middleware, the role parse and write live here.
func (a *AuthService) AssignRole(ctx context.Context, accountID uuid.UUID, role string) error {
	parsed, err := db_models.ParseRole(role)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	if err := a.accountRepo.UpdateRole(ctx, accountID, parsed); err != nil {
		if account, ferr := a.accountRepo.FindByID(ctx, accountID); ferr == nil && account == nil {
			return utils.ErrNotFound
		}
		return utils.ErrDatabaseError
	}
	return nil
}

func toAccountResponse(account *db_models.Account) response_models.AccountResponse {
	resp := response_models.AccountResponse{
		ID:    account.ID,
		Email: account.Email,
		Role:  string(account.Role),
	}
	if account.Profile != nil {
		resp.FullName = account.Profile.FullName
		resp.Phone = account.Profile.Phone
		resp.Address = account.Profile.Address
	}
	return resp
}
