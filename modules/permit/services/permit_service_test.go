package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hse-digital/platform/modules/permit/domain/entities/permit"
	"github.com/hse-digital/platform/modules/permit/infrastructure/persistence"
	"github.com/hse-digital/platform/modules/permit/services"
	"github.com/hse-digital/platform/pkg/eventbus"
	"github.com/hse-digital/platform/pkg/itf"
	"github.com/hse-digital/platform/pkg/tenancy"
)

func newPermitService() *services.PermitService {
	return services.NewPermitService(
		persistence.NewPermitRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func buildEnv(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	return itf.NewTestContext().
		WithMigrationsDir("../../../migrations").
		Build(t)
}

func TestPermitService_ApprovalFlow(t *testing.T) {
	env := buildEnv(t)
	service := newPermitService()

	requested, err := service.Request(env.Ctx, permit.New(
		uuid.New(), "hot_work", time.Now(), time.Now().Add(8*time.Hour),
	))
	require.NoError(t, err)
	assert.Equal(t, permit.StatusPending, requested.Status())

	approverID := uuid.New()
	approved, err := service.Approve(env.Ctx, requested.ID(), approverID)
	require.NoError(t, err)
	assert.Equal(t, permit.StatusApproved, approved.Status())
	assert.Equal(t, approverID, approved.ApproverID())
	assert.True(t, approved.IsValidAt(time.Now()))
}

func TestPermitService_ExpireOutdated(t *testing.T) {
	env := buildEnv(t)
	service := newPermitService()

	stale, err := service.Request(env.Ctx, permit.New(
		uuid.New(), "confined_space", time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour),
	))
	require.NoError(t, err)
	_, err = service.Approve(env.Ctx, stale.ID(), uuid.New())
	require.NoError(t, err)

	current, err := service.Request(env.Ctx, permit.New(
		uuid.New(), "hot_work", time.Now(), time.Now().Add(8*time.Hour),
	))
	require.NoError(t, err)
	_, err = service.Approve(env.Ctx, current.ID(), uuid.New())
	require.NoError(t, err)

	expired, err := service.ExpireOutdated(env.Ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	found, err := service.GetByID(env.Ctx, stale.ID())
	require.NoError(t, err)
	assert.Equal(t, permit.StatusExpired, found.Status())
}

func TestPermitService_CrossTenantApprovalIsNotFound(t *testing.T) {
	env := buildEnv(t)
	service := newPermitService()

	orgB := env.CreateTenant(t).ID

	requested, err := service.Request(env.Ctx, permit.New(
		uuid.New(), "electrical", time.Now(), time.Now().Add(4*time.Hour),
	))
	require.NoError(t, err)

	// An approver in another organization cannot even see the permit.
	_, err = service.Approve(env.AsTenant(orgB), requested.ID(), uuid.New())
	assert.ErrorIs(t, err, tenancy.ErrNotFound)

	count, err := service.Count(env.AsTenant(orgB), &permit.FindParams{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPermitService_RequestWithoutContextFails(t *testing.T) {
	env := buildEnv(t)
	service := newPermitService()

	_, err := service.Request(env.Unbound(), permit.New(
		uuid.New(), "hot_work", time.Now(), time.Now().Add(time.Hour),
	))
	assert.ErrorIs(t, err, tenancy.ErrAmbiguousWrite)
}
