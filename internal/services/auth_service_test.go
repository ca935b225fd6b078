package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

func newAuthHarness(t *testing.T) (*gorm.DB, AuthServiceInterface) {
	t.Helper()

	utils.SetJWTSecret("auth-test-secret")
	db := newTestDB(t)
	svc := NewAuthService(
		repositories.NewAccountRepository(db),
		repositories.NewRefreshTokenRepository(db),
		nil,
		15*time.Minute,
		7*24*time.Hour,
		zap.NewNop(),
	)
	return db, svc
}

func registerReq(email string) request_models.RegisterRequest {
	return request_models.RegisterRequest{
		Email:    email,
		Password: "password123",
		FullName: "Nguyen Van B",
		Phone:    "0912345678",
		Address:  "Ho Chi Minh City",
	}
}

func TestRegisterCreatesCustomerWithProfile(t *testing.T) {
	db, svc := newAuthHarness(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, string(db_models.RoleCustomer), resp.Role)
	assert.Equal(t, "Nguyen Van B", resp.FullName)

	var profile db_models.UserProfile
	require.NoError(t, db.First(&profile, "account_id = ?", resp.ID).Error)
	assert.Equal(t, "0912345678", profile.Phone)

	var account db_models.Account
	require.NoError(t, db.First(&account, "id = ?", resp.ID).Error)
	assert.NotEqual(t, "password123", account.PasswordHash, "password must be stored hashed")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("taken@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("taken@example.com"))
	assert.ErrorIs(t, err, utils.ErrEmailTaken)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	db, svc := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("login@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, request_models.LoginRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := utils.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.RoleCustomer), claims.Role)

	var record db_models.RefreshToken
	require.NoError(t, db.First(&record, "token = ?", resp.RefreshToken).Error)
	assert.False(t, record.Revoked)
}

func TestLoginWrongCredentialsUnauthorized(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("login@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "login@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestRefreshAndLogout(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("refresh@example.com"))
	require.NoError(t, err)
	login, err := svc.Login(ctx, request_models.LoginRequest{Email: "refresh@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, utils.ErrUnauthorized, "revoked token must not refresh")
}

func TestRefreshUnknownTokenUnauthorized(t *testing.T) {
	_, svc := newAuthHarness(t)

	_, err := svc.Refresh(context.Background(), "not-a-stored-token")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, registerReq("change@example.com"))
	require.NoError(t, err)
	login, err := svc.Login(ctx, request_models.LoginRequest{Email: "change@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, account.ID, request_models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword456",
	})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, account.ID, request_models.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	}))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, utils.ErrUnauthorized, "password change invalidates open sessions")

	_, err = svc.Login(ctx, request_models.LoginRequest{Email: "change@example.com", Password: "newpassword456"})
	assert.NoError(t, err)
}

func TestAssignRole(t *testing.T) {
	db, svc := newAuthHarness(t)
	ctx := context.Background()

	account, err := svc.Register(ctx, registerReq("promote@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.AssignRole(ctx, account.ID, "Staff"))

	var stored db_models.Account
	require.NoError(t, db.First(&stored, "id = ?", account.ID).Error)
	assert.Equal(t, db_models.RoleStaff, stored.Role)

	err = svc.AssignRole(ctx, account.ID, "Superuser")
	assert.ErrorIs(t, err, utils.ErrValidation)
}
