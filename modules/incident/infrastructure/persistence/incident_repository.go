package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hse-digital/platform/modules/incident/domain/entities/incident"
	"github.com/hse-digital/platform/modules/incident/infrastructure/persistence/models"
	"github.com/hse-digital/platform/pkg/tenancy"
)

var incidentEntity = tenancy.Register(tenancy.Entity{Table: "incidents"})

var incidentColumns = []string{
	"id",
	"station_id",
	"reporter_id",
	"incident_type",
	"severity",
	"description",
	"status",
	"reported_at",
	"resolved_at",
	"organization_id",
	"created_at",
	"updated_at",
}

type IncidentRepository struct{}

func NewIncidentRepository() incident.Repository {
	return &IncidentRepository{}
}

func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	var m models.Incident
	err := tenancy.QueryRowScoped(ctx, incidentEntity, tenancy.SelectQuery{
		Columns:    incidentColumns,
		Conditions: []string{"id = $1"},
		Args:       []any{id},
	}, incidentScanDest(&m)...)
	if err != nil {
		return nil, err
	}
	return toDomainIncident(&m)
}

func (r *IncidentRepository) GetPaginated(ctx context.Context, params *incident.FindParams) ([]*incident.Incident, error) {
	conditions, args := incidentFilter(params)

	var incidents []*incident.Incident
	err := tenancy.QueryScoped(ctx, incidentEntity, tenancy.SelectQuery{
		Columns:    incidentColumns,
		Conditions: conditions,
		Args:       args,
		OrderBy:    "reported_at DESC",
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, func(rows pgx.Rows) error {
		var m models.Incident
		if err := rows.Scan(incidentScanDest(&m)...); err != nil {
			return errors.Wrap(err, "failed to scan incident row")
		}
		i, err := toDomainIncident(&m)
		if err != nil {
			return err
		}
		incidents = append(incidents, i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *IncidentRepository) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	conditions, args := incidentFilter(params)
	return tenancy.CountScoped(ctx, incidentEntity, conditions, args)
}

func (r *IncidentRepository) Create(ctx context.Context, i *incident.Incident) (*incident.Incident, error) {
	var idStr string
	err := tenancy.InsertScoped(ctx, incidentEntity, tenancy.InsertQuery{
		Columns: []string{
			"id",
			"station_id",
			"reporter_id",
			"incident_type",
			"severity",
			"description",
			"status",
			"reported_at",
			"resolved_at",
			"organization_id",
			"created_at",
			"updated_at",
		},
		Args: []any{
			i.ID(),
			i.StationID(),
			nullableUUID(i.ReporterID()),
			i.Type(),
			string(i.Severity()),
			i.Description(),
			string(i.Status()),
			i.ReportedAt(),
			i.ResolvedAt(),
			i.TenantID(),
			i.CreatedAt(),
			i.UpdatedAt(),
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

func (r *IncidentRepository) Update(ctx context.Context, i *incident.Incident) (*incident.Incident, error) {
	_, err := tenancy.UpdateScoped(ctx, incidentEntity, tenancy.UpdateQuery{
		Set: []string{
			"severity = $1",
			"description = $2",
			"status = $3",
			"resolved_at = $4",
			"updated_at = $5",
		},
		Conditions: []string{"id = $6"},
		Args: []any{
			string(i.Severity()),
			i.Description(),
			string(i.Status()),
			i.ResolvedAt(),
			i.UpdatedAt(),
			i.ID(),
		},
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, i.ID())
}

func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := tenancy.DeleteScoped(ctx, incidentEntity, []string{"id = $1"}, []any{id})
	return err
}

func incidentScanDest(m *models.Incident) []any {
	return []any{
		&m.ID,
		&m.StationID,
		&m.ReporterID,
		&m.IncidentType,
		&m.Severity,
		&m.Description,
		&m.Status,
		&m.ReportedAt,
		&m.ResolvedAt,
		&m.OrganizationID,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

func incidentFilter(params *incident.FindParams) ([]string, []any) {
	var conditions []string
	var args []any
	if params.StationID != nil {
		args = append(args, *params.StationID)
		conditions = append(conditions, fmt.Sprintf("station_id = $%d", len(args)))
	}
	if params.Severity != nil {
		args = append(args, string(*params.Severity))
		conditions = append(conditions, fmt.Sprintf("severity = $%d", len(args)))
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

func toDomainIncident(m *models.Incident) (*incident.Incident, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid incident id")
	}
	stationID, err := uuid.Parse(m.StationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid station id")
	}
	tenantID, err := uuid.Parse(m.OrganizationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid organization id")
	}

	opts := []incident.Option{
		incident.WithID(id),
		incident.WithTenantID(tenantID),
		incident.WithStatus(incident.Status(m.Status)),
		incident.WithReportedAt(m.ReportedAt),
		incident.WithCreatedAt(m.CreatedAt),
		incident.WithUpdatedAt(m.UpdatedAt),
	}
	if m.ReporterID.Valid {
		if reporterID, err := uuid.Parse(m.ReporterID.String); err == nil {
			opts = append(opts, incident.WithReporterID(reporterID))
		}
	}
	if m.ResolvedAt.Valid {
		resolved := m.ResolvedAt.Time
		opts = append(opts, incident.WithResolvedAt(&resolved))
	}

	return incident.New(stationID, m.IncidentType, incident.Severity(m.Severity), m.Description, opts...), nil
}
