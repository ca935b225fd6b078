package bootstrap

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bloodline/internal/config"
	"bloodline/internal/infra"
	"bloodline/internal/models/db_models"
	"bloodline/pkg/utils"
)

func seedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

func TestSeedDefaultAdminIsIdempotent(t *testing.T) {
	db := seedTestDB(t)
	cfg := &config.Config{
		DefaultAdminEmail:    "admin@bloodlinedna.com",
		DefaultAdminPassword: "bootstrap-secret",
	}

	require.NoError(t, SeedDefaultAdmin(context.Background(), db, cfg, zap.NewNop()))
	require.NoError(t, SeedDefaultAdmin(context.Background(), db, cfg, zap.NewNop()))

	var accounts []db_models.Account
	require.NoError(t, db.Find(&accounts, "email = ?", cfg.DefaultAdminEmail).Error)
	require.Len(t, accounts, 1)
	assert.Equal(t, db_models.RoleAdmin, accounts[0].Role)
	assert.NoError(t, utils.ComparePasswords(accounts[0].PasswordHash, "bootstrap-secret"))
}
