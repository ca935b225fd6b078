package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bloodline/internal/infra"
	"bloodline/internal/models/db_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

// newTestDB opens an isolated in-memory database per test and migrates the
// full schema. The shared-cache DSN keeps the database alive across the
// connections gorm pools.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, email string, role db_models.Role) *db_models.Account {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	account := &db_models.Account{Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(account).Error)
	require.NoError(t, db.Create(&db_models.UserProfile{
		AccountID: account.ID,
		FullName:  "Test " + string(role),
	}).Error)

	account.Profile = &db_models.UserProfile{AccountID: account.ID, FullName: "Test " + string(role)}
	return account
}

func createService(t *testing.T, db *gorm.DB, sampleCount int) *db_models.Service {
	t.Helper()

	service := &db_models.Service{
		Name:        "Paternity Test",
		Type:        db_models.ServiceTypeCivil,
		Price:       500000,
		SampleCount: sampleCount,
		Active:      true,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

func createRequest(t *testing.T, db *gorm.DB, account *db_models.Account, service *db_models.Service, status db_models.RequestStatus, method db_models.CollectionMethod) *db_models.TestRequest {
	t.Helper()

	request := &db_models.TestRequest{
		AccountID:        account.ID,
		ServiceID:        service.ID,
		CollectionMethod: method,
		Status:           status,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func requestStatus(t *testing.T, db *gorm.DB, id uuid.UUID) db_models.RequestStatus {
	t.Helper()

	var request db_models.TestRequest
	require.NoError(t, db.First(&request, "id = ?", id).Error)
	return request.Status
}

// recordingNotifier captures result notifications for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (r *recordingNotifier) NotifyResultAvailable(_, _, _ string, requestID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, requestID)
}

func (r *recordingNotifier) notified() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.calls...)
}

func newLifecycleHarness(t *testing.T) (*gorm.DB, LifecycleServiceInterface, *recordingNotifier) {
	t.Helper()

	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewLifecycleService(
		db,
		repositories.NewTestRequestRepository(db),
		repositories.NewSampleRepository(db),
		repositories.NewTestResultRepository(db),
		repositories.NewKitRepository(db),
		notifier,
		zap.NewNop(),
	)
	return db, svc, notifier
}
