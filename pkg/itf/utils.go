package itf

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
)

// PostgreSQL identifier limit, minus room for the hash suffix.
const (
	maxDBNameLength  = 63
	hashSuffixLength = 9
)

// sanitizeDBName turns a test name into a valid database name. Long names are
// truncated with a hash suffix so parallel tests never collide.
func sanitizeDBName(name string) string {
	sanitized := strings.ToLower(name)
	for _, ch := range []string{"/", " ", "-", ".", "(", ")", "[", "]"} {
		sanitized = strings.ReplaceAll(sanitized, ch, "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		sanitized = "test_db"
	}
	if len(sanitized) <= maxDBNameLength {
		return sanitized
	}

	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(name)))[:8]
	return sanitized[:maxDBNameLength-hashSuffixLength] + "_" + hash
}

// CreateDB drops and recreates a database for the test. It connects with the
// privileged role since the constrained application role cannot create
// databases.
func CreateDB(name string) {
	sanitizedName := sanitizeDBName(name)

	c := configuration.Use()
	adminConnStr := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=postgres password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.AdminDatabase.User, c.AdminDatabase.Password,
	)
	db, err := sql.Open("postgres", adminConnStr)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARNING] Error closing CreateDB connection: %v", err)
		}
	}()
	if _, err := db.ExecContext(context.Background(), fmt.Sprintf("DROP DATABASE IF EXISTS %s", sanitizedName)); err != nil {
		panic(err)
	}
	if _, err := db.ExecContext(context.Background(), fmt.Sprintf("CREATE DATABASE %s", sanitizedName)); err != nil {
		panic(err)
	}
}

// DbOpts returns the connection string for the constrained application role.
func DbOpts(name string) string {
	c := configuration.Use()
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, sanitizeDBName(name), c.Database.Password,
	)
}

// AdminDbOpts returns the connection string for the privileged role used for
// migrations and fixtures.
func AdminDbOpts(name string) string {
	c := configuration.Use()
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.AdminDatabase.User, sanitizeDBName(name), c.AdminDatabase.Password,
	)
}

func NewPool(dbOpts string) *pgxpool.Pool {
	return NewPoolWithMaxConns(dbOpts, 4)
}

// NewPoolWithMaxConns is used by tests that need to force connection reuse,
// e.g. checking that a tenant binding never survives a transaction.
func NewPoolWithMaxConns(dbOpts string, maxConns int32) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	config, err := pgxpool.ParseConfig(dbOpts)
	if err != nil {
		panic(err)
	}
	config.MaxConns = maxConns
	config.MinConns = 1
	config.MaxConnLifetime = time.Minute * 5
	config.MaxConnIdleTime = time.Second * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		panic(fmt.Errorf("failed to create database pool: %w", err))
	}
	return pool
}

func DefaultParams() *composables.Params {
	return &composables.Params{
		IP:            "",
		UserAgent:     "",
		Authenticated: true,
		Request:       nil,
		Writer:        nil,
	}
}

// CreateTestTenant inserts an organization through the privileged pool, which
// is exempt from row-level security.
func CreateTestTenant(ctx context.Context, adminPool *pgxpool.Pool) (*composables.Tenant, error) {
	tenantID := uuid.New()
	testTenant := &composables.Tenant{
		ID:     tenantID,
		Name:   "Test Org " + tenantID.String()[:8],
		Domain: tenantID.String()[:8] + ".test.example",
	}

	_, err := adminPool.Exec(ctx,
		"INSERT INTO tenants (id, name, domain, subscription_plan, subscription_status, created_at, updated_at) VALUES ($1, $2, $3, 'standard', 'active', now(), now()) ON CONFLICT (id) DO NOTHING",
		testTenant.ID,
		testTenant.Name,
		testTenant.Domain,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create test tenant: %w", err)
	}
	return testTenant, nil
}
