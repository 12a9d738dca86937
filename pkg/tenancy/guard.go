package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/repo"
)

// The guard is the object-layer half of tenant isolation. Repositories for
// allow-listed entities go through these primitives for every operation, so
// the tenant constraint is applied at the data-access layer itself rather
// than at individual call sites. The database's row-level policies enforce
// the same boundary independently.

// SelectQuery describes a guarded SELECT. Conditions are fragments with $n
// placeholders numbered against Args; the guard appends the tenant predicate
// with the next free placeholder and always ANDs it, never ORs.
type SelectQuery struct {
	Columns    []string
	Conditions []string
	Args       []any
	OrderBy    string
	Limit      int
	Offset     int
}

// InsertQuery describes a guarded INSERT. The guard writes the tenant column
// itself: a client-supplied value for it is overwritten with the bound
// tenant id.
type InsertQuery struct {
	Columns   []string
	Args      []any
	Returning []string
}

// UpdateQuery describes a guarded UPDATE. Set fragments and Conditions use
// $n placeholders numbered against Args.
type UpdateQuery struct {
	Set        []string
	Conditions []string
	Args       []any
}

// QueryScoped runs a SELECT constrained to the bound tenant and invokes scan
// for each row. With no tenant bound it returns nil without touching the
// database: background code paths sometimes read without a context, and those
// reads must yield zero rows rather than an error.
func QueryScoped(ctx context.Context, e Entity, q SelectQuery, scan func(rows pgx.Rows) error) error {
	tenantID, ok := composables.TryUseTenantID(ctx)
	if !ok {
		recordDecision(ctx, AccessDecision{Entity: e.Table, Operation: "select", Outcome: OutcomeBlockedNoContext})
		return nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query, args := buildSelect(e, q, tenantID)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return mapAndRecord(ctx, e, "select", tenantID, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: "select", Outcome: OutcomeAllowed})
	return nil
}

// QueryRowScoped runs a single-row SELECT constrained to the bound tenant.
// A row that does not exist in the bound tenant's partition, or a missing
// tenant context, both surface as ErrNotFound.
func QueryRowScoped(ctx context.Context, e Entity, q SelectQuery, dest ...any) error {
	tenantID, ok := composables.TryUseTenantID(ctx)
	if !ok {
		recordDecision(ctx, AccessDecision{Entity: e.Table, Operation: "select", Outcome: OutcomeBlockedNoContext})
		return ErrNotFound
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query, args := buildSelect(e, q, tenantID)
	if err := tx.QueryRow(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: "select", Outcome: OutcomeAllowed})
			return ErrNotFound
		}
		return mapAndRecord(ctx, e, "select", tenantID, err)
	}

	recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: "select", Outcome: OutcomeAllowed})
	return nil
}

// CountScoped counts rows visible to the bound tenant. Zero with no context.
func CountScoped(ctx context.Context, e Entity, conditions []string, args []any) (int64, error) {
	var total int64
	err := QueryRowScoped(ctx, e, SelectQuery{
		Columns:    []string{"COUNT(*)"},
		Conditions: conditions,
		Args:       args,
	}, &total)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return total, err
}

// InsertScoped creates a row in the bound tenant's partition. The tenant
// column is always set from the bound context; whatever the caller supplied
// for it is discarded.
func InsertScoped(ctx context.Context, e Entity, q InsertQuery, dest ...any) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		recordDecision(ctx, AccessDecision{Entity: e.Table, Operation: "insert", Outcome: OutcomeBlockedNoContext})
		return ErrAmbiguousWrite
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	query, args := buildInsert(e, q, tenantID)
	if len(dest) > 0 {
		err = tx.QueryRow(ctx, query, args...).Scan(dest...)
	} else {
		_, err = tx.Exec(ctx, query, args...)
	}
	if err != nil {
		return mapAndRecord(ctx, e, "insert", tenantID, err)
	}

	recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: "insert", Outcome: OutcomeAllowed})
	return nil
}

// UpdateScoped mutates rows inside the bound tenant's partition only. A
// target owned by another tenant matches zero rows and returns ErrNotFound,
// indistinguishable from a row that does not exist at all.
func UpdateScoped(ctx context.Context, e Entity, q UpdateQuery) (int64, error) {
	return execScoped(ctx, e, "update", func(tenantID uuid.UUID) (string, []any) {
		return buildUpdate(e, q, tenantID)
	})
}

// DeleteScoped removes rows inside the bound tenant's partition only.
func DeleteScoped(ctx context.Context, e Entity, conditions []string, args []any) (int64, error) {
	return execScoped(ctx, e, "delete", func(tenantID uuid.UUID) (string, []any) {
		return buildDelete(e, conditions, args, tenantID)
	})
}

func execScoped(ctx context.Context, e Entity, op string, build func(uuid.UUID) (string, []any)) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		recordDecision(ctx, AccessDecision{Entity: e.Table, Operation: op, Outcome: OutcomeBlockedNoContext})
		return 0, ErrAmbiguousWrite
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	query, args := build(tenantID)
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapAndRecord(ctx, e, op, tenantID, err)
	}

	affected := tag.RowsAffected()
	if affected == 0 {
		recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: op, Outcome: OutcomeBlockedMismatch})
		return 0, ErrNotFound
	}

	recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: op, Outcome: OutcomeAllowed})
	return affected, nil
}

func mapAndRecord(ctx context.Context, e Entity, op string, tenantID uuid.UUID, err error) error {
	mapped := mapPgError(err)
	if IsPolicyRejection(mapped) {
		recordDecision(ctx, AccessDecision{TenantID: tenantID, Entity: e.Table, Operation: op, Outcome: OutcomeRejectedByPolicy})
	}
	return mapped
}

func buildSelect(e Entity, q SelectQuery, tenantID uuid.UUID) (string, []any) {
	args := append([]any{}, q.Args...)
	args = append(args, tenantID)
	tenantCond := fmt.Sprintf("%s = $%d", e.TenantColumn, len(args))

	conditions := append([]string{}, q.Conditions...)
	conditions = append(conditions, tenantCond)

	query := repo.Join(
		"SELECT "+strings.Join(q.Columns, ", "),
		"FROM "+e.Table,
		repo.JoinWhere(conditions...),
	)
	if q.OrderBy != "" {
		query = repo.Join(query, "ORDER BY "+q.OrderBy)
	}
	query = repo.Join(query, repo.FormatLimitOffset(q.Limit, q.Offset))
	return query, args
}

func buildInsert(e Entity, q InsertQuery, tenantID uuid.UUID) (string, []any) {
	columns := make([]string, 0, len(q.Columns)+1)
	args := make([]any, 0, len(q.Args)+1)
	for i, col := range q.Columns {
		if col == e.TenantColumn {
			// Overwrite the client-supplied organization with the bound one.
			continue
		}
		columns = append(columns, col)
		args = append(args, q.Args[i])
	}
	columns = append(columns, e.TenantColumn)
	args = append(args, tenantID)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		e.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	if len(q.Returning) > 0 {
		query += " RETURNING " + strings.Join(q.Returning, ", ")
	}
	return query, args
}

func buildUpdate(e Entity, q UpdateQuery, tenantID uuid.UUID) (string, []any) {
	args := append([]any{}, q.Args...)
	args = append(args, tenantID)
	tenantCond := fmt.Sprintf("%s = $%d", e.TenantColumn, len(args))

	conditions := append([]string{}, q.Conditions...)
	conditions = append(conditions, tenantCond)

	query := repo.Join(
		"UPDATE "+e.Table,
		"SET "+strings.Join(q.Set, ", "),
		repo.JoinWhere(conditions...),
	)
	return query, args
}

func buildDelete(e Entity, conditions []string, condArgs []any, tenantID uuid.UUID) (string, []any) {
	args := append([]any{}, condArgs...)
	args = append(args, tenantID)
	tenantCond := fmt.Sprintf("%s = $%d", e.TenantColumn, len(args))

	all := append([]string{}, conditions...)
	all = append(all, tenantCond)

	query := repo.Join(
		"DELETE FROM "+e.Table,
		repo.JoinWhere(all...),
	)
	return query, args
}
