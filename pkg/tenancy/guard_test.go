package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/constants"
)

var testEntity = Entity{Table: "widgets", TenantColumn: "organization_id"}

type fakeTx struct {
	queries []string
	args    [][]any
	tag     pgconn.CommandTag
	execErr error
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	return &emptyRows{}, nil
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	return noRow{}
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	return f.tag, f.execErr
}

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...any) error                       { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

type noRow struct{}

func (noRow) Scan(dest ...any) error { return pgx.ErrNoRows }

func ctxWithFakeTx(tx *fakeTx, tenantID uuid.UUID) context.Context {
	ctx := context.WithValue(context.Background(), constants.TxKey, tx)
	if tenantID != uuid.Nil {
		ctx = composables.WithTenantID(ctx, tenantID)
	}
	return ctx
}

func TestQueryScoped_NoContextReturnsEmptyWithoutQuerying(t *testing.T) {
	tx := &fakeTx{}
	ctx := ctxWithFakeTx(tx, uuid.Nil)

	scanned := 0
	err := QueryScoped(ctx, testEntity, SelectQuery{Columns: []string{"id"}}, func(rows pgx.Rows) error {
		scanned++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, scanned)
	assert.Empty(t, tx.queries, "no-context read must not touch the database")
}

func TestQueryScoped_AppendsTenantPredicate(t *testing.T) {
	tx := &fakeTx{}
	tenantID := uuid.New()
	ctx := ctxWithFakeTx(tx, tenantID)

	err := QueryScoped(ctx, testEntity, SelectQuery{
		Columns:    []string{"id", "name"},
		Conditions: []string{"status = $1"},
		Args:       []any{"open"},
		OrderBy:    "created_at DESC",
		Limit:      10,
	}, func(rows pgx.Rows) error { return nil })
	require.NoError(t, err)

	require.Len(t, tx.queries, 1)
	assert.Equal(t,
		"SELECT id, name FROM widgets WHERE status = $1 AND organization_id = $2 ORDER BY created_at DESC LIMIT 10",
		tx.queries[0],
	)
	assert.Equal(t, []any{"open", tenantID}, tx.args[0])
}

func TestQueryRowScoped_NoContextIsNotFound(t *testing.T) {
	tx := &fakeTx{}
	ctx := ctxWithFakeTx(tx, uuid.Nil)

	var id string
	err := QueryRowScoped(ctx, testEntity, SelectQuery{Columns: []string{"id"}}, &id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, tx.queries)
}

func TestQueryRowScoped_NoRowsIsNotFound(t *testing.T) {
	tx := &fakeTx{}
	ctx := ctxWithFakeTx(tx, uuid.New())

	var id string
	err := QueryRowScoped(ctx, testEntity, SelectQuery{
		Columns:    []string{"id"},
		Conditions: []string{"id = $1"},
		Args:       []any{"abc"},
	}, &id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertScoped_NoContextIsAmbiguousWrite(t *testing.T) {
	tx := &fakeTx{}
	ctx := ctxWithFakeTx(tx, uuid.Nil)

	err := InsertScoped(ctx, testEntity, InsertQuery{Columns: []string{"id"}, Args: []any{"abc"}})
	assert.ErrorIs(t, err, ErrAmbiguousWrite)
	assert.Empty(t, tx.queries)
}

func TestInsertScoped_OverwritesClientSuppliedTenant(t *testing.T) {
	tx := &fakeTx{tag: pgconn.NewCommandTag("INSERT 0 1")}
	tenantID := uuid.New()
	ctx := ctxWithFakeTx(tx, tenantID)

	spoofed := uuid.New()
	err := InsertScoped(ctx, testEntity, InsertQuery{
		Columns: []string{"id", "organization_id", "name"},
		Args:    []any{"abc", spoofed, "pump-3"},
	})
	require.NoError(t, err)

	require.Len(t, tx.queries, 1)
	assert.Equal(t,
		"INSERT INTO widgets (id, name, organization_id) VALUES ($1, $2, $3)",
		tx.queries[0],
	)
	assert.Equal(t, []any{"abc", "pump-3", tenantID}, tx.args[0])
	assert.NotContains(t, tx.args[0], spoofed)
}

func TestUpdateScoped_ZeroRowsIsNotFound(t *testing.T) {
	tx := &fakeTx{tag: pgconn.NewCommandTag("UPDATE 0")}
	tenantID := uuid.New()
	ctx := ctxWithFakeTx(tx, tenantID)

	affected, err := UpdateScoped(ctx, testEntity, UpdateQuery{
		Set:        []string{"name = $1"},
		Conditions: []string{"id = $2"},
		Args:       []any{"pump-4", "abc"},
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, affected)

	require.Len(t, tx.queries, 1)
	assert.Equal(t,
		"UPDATE widgets SET name = $1 WHERE id = $2 AND organization_id = $3",
		tx.queries[0],
	)
	assert.Equal(t, []any{"pump-4", "abc", tenantID}, tx.args[0])
}

func TestUpdateScoped_NoContextIsAmbiguousWrite(t *testing.T) {
	tx := &fakeTx{}
	ctx := ctxWithFakeTx(tx, uuid.Nil)

	_, err := UpdateScoped(ctx, testEntity, UpdateQuery{Set: []string{"name = $1"}, Args: []any{"x"}})
	assert.ErrorIs(t, err, ErrAmbiguousWrite)
	assert.Empty(t, tx.queries)
}

func TestDeleteScoped_AppendsTenantPredicate(t *testing.T) {
	tx := &fakeTx{tag: pgconn.NewCommandTag("DELETE 1")}
	tenantID := uuid.New()
	ctx := ctxWithFakeTx(tx, tenantID)

	affected, err := DeleteScoped(ctx, testEntity, []string{"id = $1"}, []any{"abc"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t,
		"DELETE FROM widgets WHERE id = $1 AND organization_id = $2",
		tx.queries[0],
	)
}

func TestPolicyRejectionMapping(t *testing.T) {
	rlsErr := &pgconn.PgError{Code: pgerrcode.InsufficientPrivilege, Message: "new row violates row-level security policy"}
	tx := &fakeTx{execErr: rlsErr}
	ctx := ctxWithFakeTx(tx, uuid.New())

	err := InsertScoped(ctx, testEntity, InsertQuery{Columns: []string{"id"}, Args: []any{"abc"}})
	assert.True(t, IsPolicyRejection(err))
	assert.ErrorIs(t, err, ErrPolicyRejection)

	plain := errors.New("connection reset")
	assert.False(t, IsPolicyRejection(mapPgError(plain)))
	assert.NoError(t, mapPgError(nil))
}
