package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hse-digital/platform/modules/audit/domain/entities/audit"
	"github.com/hse-digital/platform/modules/audit/infrastructure/persistence/models"
	"github.com/hse-digital/platform/pkg/tenancy"
)

// Audits are tenant-scoped: registering the table here puts every repository
// operation behind the guarded data-access primitives, and the audits table
// carries matching row-level policies.
var auditEntity = tenancy.Register(tenancy.Entity{Table: "audits"})

var auditColumns = []string{
	"id",
	"station_id",
	"auditor_id",
	"audit_number",
	"scheduled_date",
	"completed_date",
	"status",
	"overall_score",
	"organization_id",
	"created_at",
	"updated_at",
}

type AuditRepository struct{}

func NewAuditRepository() audit.Repository {
	return &AuditRepository{}
}

func (r *AuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*audit.Audit, error) {
	var m models.Audit
	err := tenancy.QueryRowScoped(ctx, auditEntity, tenancy.SelectQuery{
		Columns:    auditColumns,
		Conditions: []string{"id = $1"},
		Args:       []any{id},
	},
		&m.ID,
		&m.StationID,
		&m.AuditorID,
		&m.AuditNumber,
		&m.ScheduledDate,
		&m.CompletedDate,
		&m.Status,
		&m.OverallScore,
		&m.OrganizationID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return toDomainAudit(&m)
}

func (r *AuditRepository) GetPaginated(ctx context.Context, params *audit.FindParams) ([]*audit.Audit, error) {
	conditions, args := auditFilter(params)

	var audits []*audit.Audit
	err := tenancy.QueryScoped(ctx, auditEntity, tenancy.SelectQuery{
		Columns:    auditColumns,
		Conditions: conditions,
		Args:       args,
		OrderBy:    "scheduled_date DESC",
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, func(rows pgx.Rows) error {
		var m models.Audit
		if err := rows.Scan(
			&m.ID,
			&m.StationID,
			&m.AuditorID,
			&m.AuditNumber,
			&m.ScheduledDate,
			&m.CompletedDate,
			&m.Status,
			&m.OverallScore,
			&m.OrganizationID,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return errors.Wrap(err, "failed to scan audit row")
		}
		a, err := toDomainAudit(&m)
		if err != nil {
			return err
		}
		audits = append(audits, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return audits, nil
}

func (r *AuditRepository) Count(ctx context.Context, params *audit.FindParams) (int64, error) {
	conditions, args := auditFilter(params)
	return tenancy.CountScoped(ctx, auditEntity, conditions, args)
}

func (r *AuditRepository) Create(ctx context.Context, a *audit.Audit) (*audit.Audit, error) {
	var idStr string
	err := tenancy.InsertScoped(ctx, auditEntity, tenancy.InsertQuery{
		Columns: []string{
			"id",
			"station_id",
			"auditor_id",
			"audit_number",
			"scheduled_date",
			"completed_date",
			"status",
			"overall_score",
			"organization_id",
			"created_at",
			"updated_at",
		},
		Args: []any{
			a.ID(),
			a.StationID(),
			nullableUUID(a.AuditorID()),
			a.AuditNumber(),
			a.ScheduledDate(),
			a.CompletedDate(),
			string(a.Status()),
			a.OverallScore(),
			a.TenantID(),
			a.CreatedAt(),
			a.UpdatedAt(),
		},
		Returning: []string{"id"},
	}, &idStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *AuditRepository) Update(ctx context.Context, a *audit.Audit) (*audit.Audit, error) {
	_, err := tenancy.UpdateScoped(ctx, auditEntity, tenancy.UpdateQuery{
		Set: []string{
			"station_id = $1",
			"auditor_id = $2",
			"audit_number = $3",
			"scheduled_date = $4",
			"completed_date = $5",
			"status = $6",
			"overall_score = $7",
			"updated_at = $8",
		},
		Conditions: []string{"id = $9"},
		Args: []any{
			a.StationID(),
			nullableUUID(a.AuditorID()),
			a.AuditNumber(),
			a.ScheduledDate(),
			a.CompletedDate(),
			string(a.Status()),
			a.OverallScore(),
			a.UpdatedAt(),
			a.ID(),
		},
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, a.ID())
}

func (r *AuditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := tenancy.DeleteScoped(ctx, auditEntity, []string{"id = $1"}, []any{id})
	return err
}

func auditFilter(params *audit.FindParams) ([]string, []any) {
	var conditions []string
	var args []any
	if params.StationID != nil {
		args = append(args, *params.StationID)
		conditions = append(conditions, fmt.Sprintf("station_id = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	return conditions, args
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func toDomainAudit(m *models.Audit) (*audit.Audit, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid audit id")
	}
	stationID, err := uuid.Parse(m.StationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid station id")
	}
	tenantID, err := uuid.Parse(m.OrganizationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid organization id")
	}

	opts := []audit.Option{
		audit.WithID(id),
		audit.WithTenantID(tenantID),
		audit.WithStatus(audit.Status(m.Status)),
		audit.WithCreatedAt(m.CreatedAt),
		audit.WithUpdatedAt(m.UpdatedAt),
	}
	if m.AuditorID.Valid {
		if auditorID, err := uuid.Parse(m.AuditorID.String); err == nil {
			opts = append(opts, audit.WithAuditorID(auditorID))
		}
	}
	if m.CompletedDate.Valid {
		completed := m.CompletedDate.Time
		opts = append(opts, audit.WithCompletedDate(&completed))
	}
	if m.OverallScore.Valid {
		score := m.OverallScore.Float64
		opts = append(opts, audit.WithOverallScore(&score))
	}

	return audit.New(stationID, m.AuditNumber, m.ScheduledDate, opts...), nil
}
