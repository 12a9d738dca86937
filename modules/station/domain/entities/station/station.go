package station

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FindParams struct {
	Region   *string
	IsActive *bool
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Station, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Station, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, s *Station) (*Station, error)
	Update(ctx context.Context, s *Station) (*Station, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Station is a site an organization operates and audits.
type Station struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	name           string
	brand          string
	region         string
	address        string
	riskCategory   string
	auditFrequency string
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

type Option func(*Station)

func WithID(id uuid.UUID) Option {
	return func(s *Station) {
		s.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(s *Station) {
		s.tenantID = tenantID
	}
}

func WithBrand(brand string) Option {
	return func(s *Station) {
		s.brand = brand
	}
}

func WithRegion(region string) Option {
	return func(s *Station) {
		s.region = region
	}
}

func WithAddress(address string) Option {
	return func(s *Station) {
		s.address = address
	}
}

func WithRiskCategory(riskCategory string) Option {
	return func(s *Station) {
		s.riskCategory = riskCategory
	}
}

func WithAuditFrequency(auditFrequency string) Option {
	return func(s *Station) {
		s.auditFrequency = auditFrequency
	}
}

func WithActive(isActive bool) Option {
	return func(s *Station) {
		s.isActive = isActive
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(s *Station) {
		s.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(s *Station) {
		s.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Station {
	s := &Station{
		id:        uuid.New(),
		name:      name,
		isActive:  true,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Station) ID() uuid.UUID {
	return s.id
}

func (s *Station) TenantID() uuid.UUID {
	return s.tenantID
}

func (s *Station) Name() string {
	return s.name
}

func (s *Station) Brand() string {
	return s.brand
}

func (s *Station) Region() string {
	return s.region
}

func (s *Station) Address() string {
	return s.address
}

func (s *Station) RiskCategory() string {
	return s.riskCategory
}

func (s *Station) AuditFrequency() string {
	return s.auditFrequency
}

func (s *Station) IsActive() bool {
	return s.isActive
}

func (s *Station) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Station) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Station) Rename(name string) {
	s.name = name
	s.updatedAt = time.Now()
}

func (s *Station) Deactivate() {
	s.isActive = false
	s.updatedAt = time.Now()
}

func (s *Station) Activate() {
	s.isActive = true
	s.updatedAt = time.Now()
}
