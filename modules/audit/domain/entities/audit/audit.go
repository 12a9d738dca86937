package audit

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Audit is a health and safety inspection of a station. Audits always belong
// to exactly one organization; the owning organization is assigned at
// creation from the request context and never changes.
type Audit struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	stationID     uuid.UUID
	auditorID     uuid.UUID
	auditNumber   string
	scheduledDate time.Time
	completedDate *time.Time
	status        Status
	overallScore  *float64
	createdAt     time.Time
	updatedAt     time.Time
}

type Option func(*Audit)

func WithID(id uuid.UUID) Option {
	return func(a *Audit) {
		a.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(a *Audit) {
		a.tenantID = tenantID
	}
}

func WithAuditorID(auditorID uuid.UUID) Option {
	return func(a *Audit) {
		a.auditorID = auditorID
	}
}

func WithStatus(status Status) Option {
	return func(a *Audit) {
		a.status = status
	}
}

func WithCompletedDate(completedDate *time.Time) Option {
	return func(a *Audit) {
		a.completedDate = completedDate
	}
}

func WithOverallScore(score *float64) Option {
	return func(a *Audit) {
		a.overallScore = score
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(a *Audit) {
		a.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(a *Audit) {
		a.updatedAt = updatedAt
	}
}

func New(stationID uuid.UUID, auditNumber string, scheduledDate time.Time, opts ...Option) *Audit {
	a := &Audit{
		id:            uuid.New(),
		stationID:     stationID,
		auditNumber:   auditNumber,
		scheduledDate: scheduledDate,
		status:        StatusScheduled,
		createdAt:     time.Now(),
		updatedAt:     time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Audit) ID() uuid.UUID {
	return a.id
}

// TenantID is the owning organization. It is zero until the repository
// persists the audit inside a tenant-bound transaction.
func (a *Audit) TenantID() uuid.UUID {
	return a.tenantID
}

func (a *Audit) StationID() uuid.UUID {
	return a.stationID
}

func (a *Audit) AuditorID() uuid.UUID {
	return a.auditorID
}

func (a *Audit) AuditNumber() string {
	return a.auditNumber
}

func (a *Audit) ScheduledDate() time.Time {
	return a.scheduledDate
}

func (a *Audit) CompletedDate() *time.Time {
	return a.completedDate
}

func (a *Audit) Status() Status {
	return a.status
}

func (a *Audit) OverallScore() *float64 {
	return a.overallScore
}

func (a *Audit) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Audit) UpdatedAt() time.Time {
	return a.updatedAt
}

func (a *Audit) Start() {
	a.status = StatusInProgress
	a.updatedAt = time.Now()
}

// Complete closes the audit with its final score.
func (a *Audit) Complete(score float64) {
	now := time.Now()
	a.status = StatusCompleted
	a.completedDate = &now
	a.overallScore = &score
	a.updatedAt = now
}

func (a *Audit) Cancel() {
	a.status = StatusCancelled
	a.updatedAt = time.Now()
}
