package itf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/pkg/application"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/eventbus"
)

// TestContext provides a fluent API for building test environments.
type TestContext struct {
	ctx           context.Context
	user          user.User
	dbName        string
	migrationsDir string
	maxConns      int32
}

func NewTestContext() *TestContext {
	return &TestContext{
		ctx:      context.Background(),
		maxConns: 4,
	}
}

// WithUser sets the principal for the test context.
func (tc *TestContext) WithUser(u user.User) *TestContext {
	tc.user = u
	return tc
}

// WithDBName sets a custom database name.
func (tc *TestContext) WithDBName(name string) *TestContext {
	if tc.dbName == "" {
		tc.dbName = name
	}
	return tc
}

// WithMigrationsDir overrides the migrations directory. Module tests sit a
// few levels below the repository root, so they usually need this.
func (tc *TestContext) WithMigrationsDir(dir string) *TestContext {
	tc.migrationsDir = dir
	return tc
}

// WithMaxConns limits the constrained pool. A single connection forces every
// transaction onto the same pooled connection.
func (tc *TestContext) WithMaxConns(n int32) *TestContext {
	tc.maxConns = n
	return tc
}

// Build creates a fresh database, migrates it through the privileged role and
// seeds one organization. The returned environment carries both pools; the
// constrained one is the default for built contexts.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	if tc.dbName == "" {
		tc.dbName = tb.Name()
	}
	if tc.migrationsDir == "" {
		tc.migrationsDir = configuration.Use().MigrationsDir
	}

	CreateDB(tc.dbName)
	adminPool := NewPool(AdminDbOpts(tc.dbName))
	if err := application.NewMigrationManager(adminPool, tc.migrationsDir).Run(); err != nil {
		tb.Fatal(err)
	}
	pool := NewPoolWithMaxConns(DbOpts(tc.dbName), tc.maxConns)

	tenant, err := CreateTestTenant(tc.ctx, adminPool)
	if err != nil {
		tb.Fatal(err)
	}

	conf := configuration.Use()
	app := application.New(&application.ApplicationOptions{
		Pool:          pool,
		EventBus:      eventbus.NewEventPublisher(conf.Logger()),
		Logger:        conf.Logger(),
		MigrationsDir: tc.migrationsDir,
	})

	env := &TestEnvironment{
		Pool:      pool,
		AdminPool: adminPool,
		App:       app,
		Tenant:    tenant,
		User:      tc.user,
	}
	env.Ctx = env.AsTenant(tenant.ID)

	tb.Cleanup(func() {
		pool.Close()
		adminPool.Close()
	})
	return env
}

// TestEnvironment contains all test dependencies.
type TestEnvironment struct {
	Ctx       context.Context
	Pool      *pgxpool.Pool
	AdminPool *pgxpool.Pool
	App       application.Application
	Tenant    *composables.Tenant
	User      user.User
}

// TenantID returns the seeded organization's id.
func (te *TestEnvironment) TenantID() uuid.UUID {
	return te.Tenant.ID
}

// CreateTenant seeds another organization, for cross-tenant assertions.
func (te *TestEnvironment) CreateTenant(tb testing.TB) *composables.Tenant {
	tb.Helper()
	t, err := CreateTestTenant(context.Background(), te.AdminPool)
	if err != nil {
		tb.Fatal(err)
	}
	return t
}

// AsTenant returns a context bound to the given organization, backed by the
// constrained pool.
func (te *TestEnvironment) AsTenant(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = composables.WithPool(ctx, te.Pool)
	ctx = composables.WithTenantID(ctx, tenantID)
	ctx = composables.WithParams(ctx, DefaultParams())
	if te.User != nil {
		ctx = composables.WithUser(ctx, te.User)
	}
	return ctx
}

// Unbound returns a context with no organization resolved, as seen by an
// admin-global request that selected no tenant.
func (te *TestEnvironment) Unbound() context.Context {
	ctx := context.Background()
	ctx = composables.WithPool(ctx, te.Pool)
	ctx = composables.WithParams(ctx, DefaultParams())
	return ctx
}

// Service retrieves a service from the application.
func (te *TestEnvironment) Service(service interface{}) interface{} {
	return te.App.Service(service)
}

// InTenantTx runs fn in a fresh transaction bound to the given organization.
func (te *TestEnvironment) InTenantTx(tb testing.TB, tenantID uuid.UUID, fn func(ctx context.Context) error) error {
	tb.Helper()
	return composables.InTx(te.AsTenant(tenantID), fn)
}

// RawQuery runs raw SQL on the constrained pool inside a tenant-bound
// transaction, for checks that deliberately go around the guarded data
// access layer.
func (te *TestEnvironment) RawQuery(tb testing.TB, tenantID uuid.UUID, sql string, args ...interface{}) ([][]interface{}, error) {
	tb.Helper()
	var rowsOut [][]interface{}
	err := composables.InTx(te.AsTenant(tenantID), func(ctx context.Context) error {
		tx, err := composables.UseTx(ctx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return err
			}
			rowsOut = append(rowsOut, vals)
		}
		return rows.Err()
	})
	return rowsOut, err
}
