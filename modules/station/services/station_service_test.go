package services_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hse-digital/platform/modules/station/domain/entities/station"
	"github.com/hse-digital/platform/modules/station/infrastructure/persistence"
	"github.com/hse-digital/platform/modules/station/services"
	"github.com/hse-digital/platform/pkg/eventbus"
	"github.com/hse-digital/platform/pkg/itf"
	"github.com/hse-digital/platform/pkg/tenancy"
)

func newStationService() *services.StationService {
	return services.NewStationService(
		persistence.NewStationRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func buildEnv(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	return itf.NewTestContext().
		WithMigrationsDir("../../../migrations").
		Build(t)
}

func TestStationService_Lifecycle(t *testing.T) {
	env := buildEnv(t)
	service := newStationService()

	created, err := service.Create(env.Ctx, station.New("Pump Station 4",
		station.WithBrand("Shell"),
		station.WithRegion("north"),
		station.WithRiskCategory("high"),
	))
	require.NoError(t, err)
	assert.Equal(t, env.TenantID(), created.TenantID())
	assert.True(t, created.IsActive())
	assert.Equal(t, "north", created.Region())

	created.Rename("Pump Station 4A")
	updated, err := service.Update(env.Ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Pump Station 4A", updated.Name())

	deactivated, err := service.Deactivate(env.Ctx, created.ID())
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive())
}

func TestStationService_RegionFilterStaysInTenant(t *testing.T) {
	env := buildEnv(t)
	service := newStationService()

	orgB := env.CreateTenant(t).ID

	_, err := service.Create(env.Ctx, station.New("A1", station.WithRegion("north")))
	require.NoError(t, err)
	_, err = service.Create(env.Ctx, station.New("A2", station.WithRegion("south")))
	require.NoError(t, err)
	_, err = service.Create(env.AsTenant(orgB), station.New("B1", station.WithRegion("north")))
	require.NoError(t, err)

	region := "north"
	stations, err := service.GetPaginated(env.Ctx, &station.FindParams{Region: &region, Limit: 10})
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "A1", stations[0].Name())
	assert.Equal(t, env.TenantID(), stations[0].TenantID())
}

func TestStationService_CrossTenantTargetIsNotFound(t *testing.T) {
	env := buildEnv(t)
	service := newStationService()

	orgB := env.CreateTenant(t).ID

	created, err := service.Create(env.Ctx, station.New("Depot 12"))
	require.NoError(t, err)

	_, err = service.GetByID(env.AsTenant(orgB), created.ID())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)

	err = service.Delete(env.AsTenant(orgB), created.ID())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)

	found, err := service.GetByID(env.Ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "Depot 12", found.Name())
}

func TestStationService_CreateWithoutContextFails(t *testing.T) {
	env := buildEnv(t)
	service := newStationService()

	_, err := service.Create(env.Unbound(), station.New("Orphan"))
	assert.ErrorIs(t, err, tenancy.ErrAmbiguousWrite)
}
