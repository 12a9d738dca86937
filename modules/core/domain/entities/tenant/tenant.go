package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) (*Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Tenant, error)
}

type Tenant struct {
	id                 uuid.UUID
	name               string
	domain             string
	subscriptionPlan   string
	subscriptionStatus SubscriptionStatus
	createdAt          time.Time
	updatedAt          time.Time
}

type Option func(*Tenant)

func WithID(id uuid.UUID) Option {
	return func(t *Tenant) {
		t.id = id
	}
}

func WithDomain(domain string) Option {
	return func(t *Tenant) {
		t.domain = domain
	}
}

func WithSubscriptionPlan(plan string) Option {
	return func(t *Tenant) {
		t.subscriptionPlan = plan
	}
}

func WithSubscriptionStatus(status SubscriptionStatus) Option {
	return func(t *Tenant) {
		t.subscriptionStatus = status
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(t *Tenant) {
		t.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(t *Tenant) {
		t.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Tenant {
	t := &Tenant{
		id:                 uuid.New(),
		name:               name,
		subscriptionPlan:   "standard",
		subscriptionStatus: SubscriptionActive,
		createdAt:          time.Now(),
		updatedAt:          time.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tenant) ID() uuid.UUID {
	return t.id
}

func (t *Tenant) Name() string {
	return t.name
}

func (t *Tenant) Domain() string {
	return t.domain
}

func (t *Tenant) SubscriptionPlan() string {
	return t.subscriptionPlan
}

func (t *Tenant) SubscriptionStatus() SubscriptionStatus {
	return t.subscriptionStatus
}

// IsActive reports whether the tenant may be resolved as a request context.
// Suspended tenants are rejected at the edge, before any data access.
func (t *Tenant) IsActive() bool {
	return t.subscriptionStatus == SubscriptionActive
}

func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Tenant) Suspend() {
	t.subscriptionStatus = SubscriptionSuspended
	t.updatedAt = time.Now()
}

func (t *Tenant) Activate() {
	t.subscriptionStatus = SubscriptionActive
	t.updatedAt = time.Now()
}
