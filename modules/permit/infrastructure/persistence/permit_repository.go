package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hse-digital/platform/modules/permit/domain/entities/permit"
	"github.com/hse-digital/platform/modules/permit/infrastructure/persistence/models"
	"github.com/hse-digital/platform/pkg/tenancy"
)

var permitEntity = tenancy.Register(tenancy.Entity{Table: "work_permits"})

var permitColumns = []string{
	"id",
	"station_id",
	"permit_type",
	"valid_from",
	"valid_until",
	"status",
	"approver_id",
	"organization_id",
	"created_at",
	"updated_at",
}

type PermitRepository struct{}

func NewPermitRepository() permit.Repository {
	return &PermitRepository{}
}

func (r *PermitRepository) GetByID(ctx context.Context, id uuid.UUID) (*permit.WorkPermit, error) {
	var m models.WorkPermit
	err := tenancy.QueryRowScoped(ctx, permitEntity, tenancy.SelectQuery{
		Columns:    permitColumns,
		Conditions: []string{"id = $1"},
		Args:       []any{id},
	}, permitScanDest(&m)...)
	if err != nil {
		return nil, err
	}
	return toDomainPermit(&m)
}

func (r *PermitRepository) GetPaginated(ctx context.Context, params *permit.FindParams) ([]*permit.WorkPermit, error) {
	conditions, args := permitFilter(params)

	var permits []*permit.WorkPermit
	err := tenancy.QueryScoped(ctx, permitEntity, tenancy.SelectQuery{
		Columns:    permitColumns,
		Conditions: conditions,
		Args:       args,
		OrderBy:    "valid_from DESC",
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, func(rows pgx.Rows) error {
		var m models.WorkPermit
		if err := rows.Scan(permitScanDest(&m)...); err != nil {
			return errors.Wrap(err, "failed to scan work permit row")
		}
		p, err := toDomainPermit(&m)
		if err != nil {
			return err
		}
		permits = append(permits, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return permits, nil
}

func (r *PermitRepository) Count(ctx context.Context, params *permit.FindParams) (int64, error) {
	conditions, args := permitFilter(params)
	return tenancy.CountScoped(ctx, permitEntity, conditions, args)
}

func (r *PermitRepository) Create(ctx context.Context, p *permit.WorkPermit) (*permit.WorkPermit, error) {
	var idStr string
	err := tenancy.InsertScoped(ctx, permitEntity, tenancy.InsertQuery{
		Columns: []string{
			"id",
			"station_id",
			"permit_type",
			"valid_from",
			"valid_until",
			"status",
			"approver_id",
			"organization_id",
			"created_at",
			"updated_at",
		},
		Args: []any{
			p.ID(),
			p.StationID(),
			p.Type(),
			p.ValidFrom(),
			p.ValidUntil(),
			string(p.Status()),
			nullableUUID(p.ApproverID()),
			p.TenantID(),
			p.CreatedAt(),
			p.UpdatedAt(),
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

func (r *PermitRepository) Update(ctx context.Context, p *permit.WorkPermit) (*permit.WorkPermit, error) {
	_, err := tenancy.UpdateScoped(ctx, permitEntity, tenancy.UpdateQuery{
		Set: []string{
			"permit_type = $1",
			"valid_from = $2",
			"valid_until = $3",
			"status = $4",
			"approver_id = $5",
			"updated_at = $6",
		},
		Conditions: []string{"id = $7"},
		Args: []any{
			p.Type(),
			p.ValidFrom(),
			p.ValidUntil(),
			string(p.Status()),
			nullableUUID(p.ApproverID()),
			p.UpdatedAt(),
			p.ID(),
		},
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID())
}

func (r *PermitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := tenancy.DeleteScoped(ctx, permitEntity, []string{"id = $1"}, []any{id})
	return err
}

func permitScanDest(m *models.WorkPermit) []any {
	return []any{
		&m.ID,
		&m.StationID,
		&m.PermitType,
		&m.ValidFrom,
		&m.ValidUntil,
		&m.Status,
		&m.ApproverID,
		&m.OrganizationID,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

func permitFilter(params *permit.FindParams) ([]string, []any) {
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

func toDomainPermit(m *models.WorkPermit) (*permit.WorkPermit, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid work permit id")
	}
	stationID, err := uuid.Parse(m.StationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid station id")
	}
	tenantID, err := uuid.Parse(m.OrganizationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid organization id")
	}

	opts := []permit.Option{
		permit.WithID(id),
		permit.WithTenantID(tenantID),
		permit.WithStatus(permit.Status(m.Status)),
		permit.WithCreatedAt(m.CreatedAt),
		permit.WithUpdatedAt(m.UpdatedAt),
	}
	if m.ApproverID.Valid {
		if approverID, err := uuid.Parse(m.ApproverID.String); err == nil {
			opts = append(opts, permit.WithApproverID(approverID))
		}
	}

	return permit.New(stationID, m.PermitType, m.ValidFrom, m.ValidUntil, opts...), nil
}
