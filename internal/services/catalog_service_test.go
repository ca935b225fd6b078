package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodline/internal/models/db_models"
	"bloodline/internal/models/request_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

func newCatalogHarness(t *testing.T) (*gorm.DB, CatalogServiceInterface) {
	t.Helper()

	db := newTestDB(t)
	return db, NewCatalogService(repositories.NewServiceRepository(db), zap.NewNop())
}

func TestCreateAndGetService(t *testing.T) {
	_, svc := newCatalogHarness(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, request_models.CreateServiceRequest{
		Name:        "Sibling DNA Test",
		Type:        "Administrative",
		Description: "Court-admissible sibling relationship test",
		Price:       750000,
		SampleCount: 2,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	got, err := svc.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sibling DNA Test", got.Name)
	assert.Equal(t, string(db_models.ServiceTypeAdministrative), got.Type)
}

func TestListServicesHidesInactive(t *testing.T) {
	db, svc := newCatalogHarness(t)
	ctx := context.Background()

	active := createService(t, db, 2)
	inactive := createService(t, db, 2)
	require.NoError(t, svc.DeactivateService(ctx, inactive.ID))

	visible, err := svc.ListServices(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	all, err := svc.ListServices(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateServicePartialFields(t *testing.T) {
	db, svc := newCatalogHarness(t)
	ctx := context.Background()

	service := createService(t, db, 2)

	newPrice := int64(999000)
	updated, err := svc.UpdateService(ctx, service.ID, request_models.UpdateServiceRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.Price)
	assert.Equal(t, service.Name, updated.Name, "untouched fields keep their value")
}

func TestCatalogNotFound(t *testing.T) {
	_, svc := newCatalogHarness(t)
	ctx := context.Background()

	_, err := svc.GetService(ctx, uuid.New())
	assert.ErrorIs(t, err, utils.ErrNotFound)

	err = svc.DeactivateService(ctx, uuid.New())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
