package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hse-digital/platform/modules/station/domain/entities/station"
	"github.com/hse-digital/platform/modules/station/infrastructure/persistence/models"
	"github.com/hse-digital/platform/pkg/tenancy"
)

var stationEntity = tenancy.Register(tenancy.Entity{Table: "stations"})

var stationColumns = []string{
	"id",
	"name",
	"brand",
	"region",
	"address",
	"risk_category",
	"audit_frequency",
	"is_active",
	"organization_id",
	"created_at",
	"updated_at",
}

type StationRepository struct{}

func NewStationRepository() station.Repository {
	return &StationRepository{}
}

func (r *StationRepository) GetByID(ctx context.Context, id uuid.UUID) (*station.Station, error) {
	var m models.Station
	err := tenancy.QueryRowScoped(ctx, stationEntity, tenancy.SelectQuery{
		Columns:    stationColumns,
		Conditions: []string{"id = $1"},
		Args:       []any{id},
	}, stationScanDest(&m)...)
	if err != nil {
		return nil, err
	}
	return toDomainStation(&m)
}

func (r *StationRepository) GetPaginated(ctx context.Context, params *station.FindParams) ([]*station.Station, error) {
	conditions, args := stationFilter(params)

	var stations []*station.Station
	err := tenancy.QueryScoped(ctx, stationEntity, tenancy.SelectQuery{
		Columns:    stationColumns,
		Conditions: conditions,
		Args:       args,
		OrderBy:    "name ASC",
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, func(rows pgx.Rows) error {
		var m models.Station
		if err := rows.Scan(stationScanDest(&m)...); err != nil {
			return errors.Wrap(err, "failed to scan station row")
		}
		s, err := toDomainStation(&m)
		if err != nil {
			return err
		}
		stations = append(stations, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stations, nil
}

func (r *StationRepository) Count(ctx context.Context, params *station.FindParams) (int64, error) {
	conditions, args := stationFilter(params)
	return tenancy.CountScoped(ctx, stationEntity, conditions, args)
}

func (r *StationRepository) Create(ctx context.Context, s *station.Station) (*station.Station, error) {
	var idStr string
	err := tenancy.InsertScoped(ctx, stationEntity, tenancy.InsertQuery{
		Columns: []string{
			"id",
			"name",
			"brand",
			"region",
			"address",
			"risk_category",
			"audit_frequency",
			"is_active",
			"organization_id",
			"created_at",
			"updated_at",
		},
		Args: []any{
			s.ID(),
			s.Name(),
			nullableString(s.Brand()),
			nullableString(s.Region()),
			nullableString(s.Address()),
			nullableString(s.RiskCategory()),
			nullableString(s.AuditFrequency()),
			s.IsActive(),
			s.TenantID(),
			s.CreatedAt(),
			s.UpdatedAt(),
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

func (r *StationRepository) Update(ctx context.Context, s *station.Station) (*station.Station, error) {
	_, err := tenancy.UpdateScoped(ctx, stationEntity, tenancy.UpdateQuery{
		Set: []string{
			"name = $1",
			"brand = $2",
			"region = $3",
			"address = $4",
			"risk_category = $5",
			"audit_frequency = $6",
			"is_active = $7",
			"updated_at = $8",
		},
		Conditions: []string{"id = $9"},
		Args: []any{
			s.Name(),
			nullableString(s.Brand()),
			nullableString(s.Region()),
			nullableString(s.Address()),
			nullableString(s.RiskCategory()),
			nullableString(s.AuditFrequency()),
			s.IsActive(),
			s.UpdatedAt(),
			s.ID(),
		},
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, s.ID())
}

func (r *StationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := tenancy.DeleteScoped(ctx, stationEntity, []string{"id = $1"}, []any{id})
	return err
}

func stationScanDest(m *models.Station) []any {
	return []any{
		&m.ID,
		&m.Name,
		&m.Brand,
		&m.Region,
		&m.Address,
		&m.RiskCategory,
		&m.AuditFrequency,
		&m.IsActive,
		&m.OrganizationID,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

func stationFilter(params *station.FindParams) ([]string, []any) {
	var conditions []string
	var args []any
	if params.Region != nil {
		args = append(args, *params.Region)
		conditions = append(conditions, fmt.Sprintf("region = $%d", len(args)))
	}
	if params.IsActive != nil {
		args = append(args, *params.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	return conditions, args
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toDomainStation(m *models.Station) (*station.Station, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid station id")
	}
	tenantID, err := uuid.Parse(m.OrganizationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid organization id")
	}

	opts := []station.Option{
		station.WithID(id),
		station.WithTenantID(tenantID),
		station.WithActive(m.IsActive),
		station.WithCreatedAt(m.CreatedAt),
		station.WithUpdatedAt(m.UpdatedAt),
	}
	if m.Brand.Valid {
		opts = append(opts, station.WithBrand(m.Brand.String))
	}
	if m.Region.Valid {
		opts = append(opts, station.WithRegion(m.Region.String))
	}
	if m.Address.Valid {
		opts = append(opts, station.WithAddress(m.Address.String))
	}
	if m.RiskCategory.Valid {
		opts = append(opts, station.WithRiskCategory(m.RiskCategory.String))
	}
	if m.AuditFrequency.Valid {
		opts = append(opts, station.WithAuditFrequency(m.AuditFrequency.String))
	}

	return station.New(m.Name, opts...), nil
}
