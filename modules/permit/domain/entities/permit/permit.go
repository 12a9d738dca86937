package permit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

type FindParams struct {
	StationID *uuid.UUID
	Status    *Status
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkPermit, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*WorkPermit, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, p *WorkPermit) (*WorkPermit, error)
	Update(ctx context.Context, p *WorkPermit) (*WorkPermit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkPermit authorizes hazardous work at a station for a bounded time
// window.
type WorkPermit struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	stationID  uuid.UUID
	permitType string
	validFrom  time.Time
	validUntil time.Time
	status     Status
	approverID uuid.UUID
	createdAt  time.Time
	updatedAt  time.Time
}

type Option func(*WorkPermit)

func WithID(id uuid.UUID) Option {
	return func(p *WorkPermit) {
		p.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(p *WorkPermit) {
		p.tenantID = tenantID
	}
}

func WithStatus(status Status) Option {
	return func(p *WorkPermit) {
		p.status = status
	}
}

func WithApproverID(approverID uuid.UUID) Option {
	return func(p *WorkPermit) {
		p.approverID = approverID
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(p *WorkPermit) {
		p.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(p *WorkPermit) {
		p.updatedAt = updatedAt
	}
}

func New(stationID uuid.UUID, permitType string, validFrom, validUntil time.Time, opts ...Option) *WorkPermit {
	p := &WorkPermit{
		id:         uuid.New(),
		stationID:  stationID,
		permitType: permitType,
		validFrom:  validFrom,
		validUntil: validUntil,
		status:     StatusPending,
		createdAt:  time.Now(),
		updatedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *WorkPermit) ID() uuid.UUID {
	return p.id
}

func (p *WorkPermit) TenantID() uuid.UUID {
	return p.tenantID
}

func (p *WorkPermit) StationID() uuid.UUID {
	return p.stationID
}

func (p *WorkPermit) Type() string {
	return p.permitType
}

func (p *WorkPermit) ValidFrom() time.Time {
	return p.validFrom
}

func (p *WorkPermit) ValidUntil() time.Time {
	return p.validUntil
}

func (p *WorkPermit) Status() Status {
	return p.status
}

func (p *WorkPermit) ApproverID() uuid.UUID {
	return p.approverID
}

func (p *WorkPermit) CreatedAt() time.Time {
	return p.createdAt
}

func (p *WorkPermit) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsValidAt reports whether the permit covers the given moment.
func (p *WorkPermit) IsValidAt(t time.Time) bool {
	return p.status == StatusApproved && !t.Before(p.validFrom) && !t.After(p.validUntil)
}

func (p *WorkPermit) Approve(approverID uuid.UUID) {
	p.status = StatusApproved
	p.approverID = approverID
	p.updatedAt = time.Now()
}

func (p *WorkPermit) Reject(approverID uuid.UUID) {
	p.status = StatusRejected
	p.approverID = approverID
	p.updatedAt = time.Now()
}

func (p *WorkPermit) Expire() {
	p.status = StatusExpired
	p.updatedAt = time.Now()
}
