package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"bloodline/pkg/vnpay"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type Config struct {
	Port        string
	PostgresURL string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DefaultAdminEmail    string
	DefaultAdminPassword string

	VNPay vnpay.Config

	// PaymentSessionTTL bounds how long an abandoned checkout is kept before
	// the sweeper drops it.
	PaymentSessionTTL time.Duration

	SMTP SMTPConfig

	FrontendURL string
}

// Load reads the environment once at startup. A missing .env file is fine;
// real deployments inject the environment directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		PostgresURL: os.Getenv("POSTGRES_URL"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@bloodlinedna.com"),
		DefaultAdminPassword: os.Getenv("DEFAULT_ADMIN_PASSWORD"),

		VNPay: vnpay.Config{
			TmnCode:    os.Getenv("VNP_TMN_CODE"),
			HashSecret: os.Getenv("VNP_HASH_SECRET"),
			PaymentURL: getEnv("VNP_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL:  os.Getenv("VNP_RETURN_URL"),
		},

		PaymentSessionTTL: getDuration("PAYMENT_SESSION_TTL", 30*time.Minute),

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@bloodlinedna.com"),
			FromName: getEnv("SMTP_FROM_NAME", "BloodLine DNA"),
		},

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on anything that would otherwise surface as silently
// invalid signatures or unverifiable tokens at request time.
func (c *Config) Validate() error {
	if c.PostgresURL == "" {
		return fmt.Errorf("POSTGRES_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if err := c.VNPay.Validate(); err != nil {
		return fmt.Errorf("vnpay: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
