package incident

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Status string

const (
	StatusReported      Status = "reported"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
)

type FindParams struct {
	StationID *uuid.UUID
	Severity  *Severity
	Status    *Status
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Incident, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, i *Incident) (*Incident, error)
	Update(ctx context.Context, i *Incident) (*Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Incident is a reported health and safety event at a station.
type Incident struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	stationID    uuid.UUID
	reporterID   uuid.UUID
	incidentType string
	severity     Severity
	description  string
	status       Status
	reportedAt   time.Time
	resolvedAt   *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

type Option func(*Incident)

func WithID(id uuid.UUID) Option {
	return func(i *Incident) {
		i.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(i *Incident) {
		i.tenantID = tenantID
	}
}

func WithReporterID(reporterID uuid.UUID) Option {
	return func(i *Incident) {
		i.reporterID = reporterID
	}
}

func WithStatus(status Status) Option {
	return func(i *Incident) {
		i.status = status
	}
}

func WithReportedAt(reportedAt time.Time) Option {
	return func(i *Incident) {
		i.reportedAt = reportedAt
	}
}

func WithResolvedAt(resolvedAt *time.Time) Option {
	return func(i *Incident) {
		i.resolvedAt = resolvedAt
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(i *Incident) {
		i.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(i *Incident) {
		i.updatedAt = updatedAt
	}
}

func New(stationID uuid.UUID, incidentType string, severity Severity, description string, opts ...Option) *Incident {
	i := &Incident{
		id:           uuid.New(),
		stationID:    stationID,
		incidentType: incidentType,
		severity:     severity,
		description:  description,
		status:       StatusReported,
		reportedAt:   time.Now(),
		createdAt:    time.Now(),
		updatedAt:    time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Incident) ID() uuid.UUID {
	return i.id
}

func (i *Incident) TenantID() uuid.UUID {
	return i.tenantID
}

func (i *Incident) StationID() uuid.UUID {
	return i.stationID
}

func (i *Incident) ReporterID() uuid.UUID {
	return i.reporterID
}

func (i *Incident) Type() string {
	return i.incidentType
}

func (i *Incident) Severity() Severity {
	return i.severity
}

func (i *Incident) Description() string {
	return i.description
}

func (i *Incident) Status() Status {
	return i.status
}

func (i *Incident) ReportedAt() time.Time {
	return i.reportedAt
}

func (i *Incident) ResolvedAt() *time.Time {
	return i.resolvedAt
}

func (i *Incident) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Incident) UpdatedAt() time.Time {
	return i.updatedAt
}

func (i *Incident) Investigate() {
	i.status = StatusInvestigating
	i.updatedAt = time.Now()
}

func (i *Incident) Resolve() {
	now := time.Now()
	i.status = StatusResolved
	i.resolvedAt = &now
	i.updatedAt = now
}
