package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/modules/core/domain/entities/tenant"
	"github.com/hse-digital/platform/modules/core/infrastructure/persistence"
	"github.com/hse-digital/platform/modules/core/services"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/eventbus"
	"github.com/hse-digital/platform/pkg/itf"
	"github.com/hse-digital/platform/pkg/tenancy"
)

func buildEnv(t *testing.T) *itf.TestEnvironment {
	t.Helper()
	return itf.NewTestContext().
		WithMigrationsDir("../../../migrations").
		Build(t)
}

func newTenantService() *services.TenantService {
	return services.NewTenantService(
		persistence.NewTenantRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

// The organization registry must be readable before any tenant is bound;
// the resolver depends on it.
func TestTenantService_LookupWithoutBinding(t *testing.T) {
	env := buildEnv(t)
	service := newTenantService()

	found, err := service.GetByID(env.Unbound(), env.TenantID())
	require.NoError(t, err)
	assert.Equal(t, env.TenantID(), found.ID())
	assert.True(t, found.IsActive())

	_, err = service.GetByID(env.Unbound(), uuid.New())
	assert.ErrorIs(t, err, persistence.ErrTenantNotFound)
}

func TestTenantService_SuspendThroughBypass(t *testing.T) {
	env := buildEnv(t)
	service := newTenantService()

	bypass := tenancy.NewBypassWithPool(env.AdminPool, logrus.New())
	err := bypass.InTx(context.Background(), "tenant-suspend", func(ctx context.Context) error {
		_, err := service.Suspend(ctx, env.TenantID())
		return err
	})
	require.NoError(t, err)

	found, err := service.GetByID(env.Unbound(), env.TenantID())
	require.NoError(t, err)
	assert.False(t, found.IsActive())
	assert.Equal(t, tenant.SubscriptionSuspended, found.SubscriptionStatus())
}

// Accounts with no organization are visible everywhere; organization members
// only inside their own organization.
func TestUserService_VisibilityFollowsAffiliation(t *testing.T) {
	env := buildEnv(t)
	userService := services.NewUserService(
		persistence.NewUserRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)

	orgA := env.TenantID()
	orgB := env.CreateTenant(t).ID

	bypass := tenancy.NewBypassWithPool(env.AdminPool, logrus.New())
	err := bypass.InTx(context.Background(), "seed-users", func(ctx context.Context) error {
		if _, err := userService.Create(ctx, user.New("ops@hse.example", user.WithRole(user.RoleAdminGlobal))); err != nil {
			return err
		}
		if _, err := userService.Create(ctx, user.New("a@hse.example", user.WithTenantID(&orgA))); err != nil {
			return err
		}
		_, err := userService.Create(ctx, user.New("b@hse.example", user.WithTenantID(&orgB)))
		return err
	})
	require.NoError(t, err)

	err = composables.InTenantTx(env.AsTenant(orgA), func(ctx context.Context) error {
		users, err := userService.List(ctx)
		if err != nil {
			return err
		}
		emails := make([]string, 0, len(users))
		for _, u := range users {
			emails = append(emails, u.Email())
		}
		assert.ElementsMatch(t, []string{"ops@hse.example", "a@hse.example"}, emails)

		_, err = userService.GetByEmail(ctx, "b@hse.example")
		assert.ErrorIs(t, err, persistence.ErrUserNotFound)
		return nil
	})
	require.NoError(t, err)
}
