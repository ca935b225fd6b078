package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodline/pkg/vnpay"
)

func validConfig() *Config {
	return &Config{
		Port:        "8080",
		PostgresURL: "postgres://localhost:5432/bloodline",
		JWTSecret:   "secret",
		VNPay: vnpay.Config{
			TmnCode:    "TEST",
			HashSecret: "hash",
			PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:8080/payments/vnpay-return",
		},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateFailsFast(t *testing.T) {
	missingDB := validConfig()
	missingDB.PostgresURL = ""
	assert.ErrorContains(t, missingDB.Validate(), "POSTGRES_URL")

	missingJWT := validConfig()
	missingJWT.JWTSecret = ""
	assert.ErrorContains(t, missingJWT.Validate(), "JWT_SECRET")

	missingVNPay := validConfig()
	missingVNPay.VNPay.HashSecret = ""
	assert.ErrorContains(t, missingVNPay.Validate(), "vnpay")
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost:5432/bloodline")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("VNP_TMN_CODE", "TEST")
	t.Setenv("VNP_HASH_SECRET", "hash")
	t.Setenv("VNP_RETURN_URL", "http://localhost:8080/payments/vnpay-return")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.PaymentSessionTTL)
	assert.Equal(t, "admin@bloodlinedna.com", cfg.DefaultAdminEmail)
}
