package application

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationManager applies the SQL migrations that define the schema, the
// database roles and the row-level policies. It must be driven by a pool
// with DDL privileges, i.e. the superadmin entrypoint, never the constrained
// application role.
type MigrationManager interface {
	Run() error
	Rollback() error
}

func NewMigrationManager(pool *pgxpool.Pool, dir string) MigrationManager {
	if dir == "" {
		dir = "migrations"
	}
	return &migrationManager{pool: pool, dir: dir}
}

type migrationManager struct {
	pool *pgxpool.Pool
	dir  string
}

func (m *migrationManager) Run() error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, m.dir)
}

func (m *migrationManager) Rollback() error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Down(db, m.dir)
}
