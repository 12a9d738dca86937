package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hse-digital/platform/modules/audit/domain/entities/audit"
	"github.com/hse-digital/platform/modules/audit/infrastructure/persistence"
	"github.com/hse-digital/platform/modules/audit/services"
	"github.com/hse-digital/platform/pkg/eventbus"
	"github.com/hse-digital/platform/pkg/itf"
	"github.com/hse-digital/platform/pkg/tenancy"
)

func newAuditService() *services.AuditService {
	return services.NewAuditService(
		persistence.NewAuditRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func buildEnv(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	return itf.NewTestContext().
		WithMigrationsDir("../../../migrations").
		Build(t)
}

func newAudit() *audit.Audit {
	return audit.New(uuid.New(), "AUD-"+uuid.New().String()[:8], time.Now().Add(24*time.Hour))
}

func TestAuditService_ReadIsolation(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	orgA := env.TenantID()
	orgB := env.CreateTenant(t).ID

	created, err := service.Create(env.AsTenant(orgA), newAudit())
	require.NoError(t, err)

	// The owning organization sees its audit.
	found, err := service.GetByID(env.AsTenant(orgA), created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())
	assert.Equal(t, orgA, found.TenantID())

	// The other organization gets not-found, never forbidden.
	_, err = service.GetByID(env.AsTenant(orgB), created.ID())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)

	// And its listings stay empty.
	audits, err := service.GetPaginated(env.AsTenant(orgB), &audit.FindParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, audits)

	count, err := service.Count(env.AsTenant(orgB), &audit.FindParams{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAuditService_NoContextReadsAreEmpty(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	_, err := service.Create(env.Ctx, newAudit())
	require.NoError(t, err)

	audits, err := service.GetPaginated(env.Unbound(), &audit.FindParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, audits)

	_, err = service.GetByID(env.Unbound(), uuid.New())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)
}

func TestAuditService_NoContextWritesFail(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	_, err := service.Create(env.Unbound(), newAudit())
	assert.ErrorIs(t, err, tenancy.ErrAmbiguousWrite)

	err = service.Delete(env.Unbound(), uuid.New())
	assert.ErrorIs(t, err, tenancy.ErrAmbiguousWrite)
}

func TestAuditService_CreateOverridesSpoofedOrganization(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	orgA := env.TenantID()
	orgB := env.CreateTenant(t).ID

	// The payload claims organization B, the context is bound to A. The
	// persisted row must belong to A.
	spoofed := audit.New(uuid.New(), "AUD-SPOOF", time.Now(), audit.WithTenantID(orgB))
	created, err := service.Create(env.AsTenant(orgA), spoofed)
	require.NoError(t, err)
	assert.Equal(t, orgA, created.TenantID())

	_, err = service.GetByID(env.AsTenant(orgB), created.ID())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)
}

func TestAuditService_WriteIsolation(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	orgA := env.TenantID()
	orgB := env.CreateTenant(t).ID

	created, err := service.Create(env.AsTenant(orgA), newAudit())
	require.NoError(t, err)

	// Mutations targeting another organization's audit report not-found.
	_, err = service.Complete(env.AsTenant(orgB), created.ID(), 87.5)
	assert.ErrorIs(t, err, tenancy.ErrNotFound)

	err = service.Delete(env.AsTenant(orgB), created.ID())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)

	// The audit is untouched for its owner.
	found, err := service.GetByID(env.AsTenant(orgA), created.ID())
	require.NoError(t, err)
	assert.Equal(t, audit.StatusScheduled, found.Status())
}

func TestAuditService_Lifecycle(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	created, err := service.Create(env.Ctx, newAudit())
	require.NoError(t, err)

	started, err := service.Start(env.Ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, audit.StatusInProgress, started.Status())

	completed, err := service.Complete(env.Ctx, created.ID(), 92.0)
	require.NoError(t, err)
	assert.Equal(t, audit.StatusCompleted, completed.Status())
	require.NotNil(t, completed.OverallScore())
	assert.InDelta(t, 92.0, *completed.OverallScore(), 0.001)
	assert.NotNil(t, completed.CompletedDate())
}

func TestAuditService_FilterByStation(t *testing.T) {
	env := buildEnv(t)
	service := newAuditService()

	stationID := uuid.New()
	_, err := service.Create(env.Ctx, audit.New(stationID, "AUD-1", time.Now()))
	require.NoError(t, err)
	_, err = service.Create(env.Ctx, audit.New(uuid.New(), "AUD-2", time.Now()))
	require.NoError(t, err)

	audits, err := service.GetPaginated(env.Ctx, &audit.FindParams{StationID: &stationID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, stationID, audits[0].StationID())
}
