package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the principal class carried by an authenticated account.
type Role string

const (
	// RoleStandard principals always belong to exactly one organization.
	RoleStandard Role = "standard"
	// RoleAdminGlobal principals have no organization affiliation; they may
	// select a tenant per request or operate through the bypass channel.
	RoleAdminGlobal Role = "admin_global"
)

// User is the authenticated principal handed to the tenant resolver.
// Credential verification happens upstream; this aggregate only carries
// identity and affiliation.
type User interface {
	ID() uuid.UUID
	Email() string
	Name() string
	Role() Role
	// TenantID is nil for orgless administrative accounts.
	TenantID() *uuid.UUID
	IsAdminGlobal() bool
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

type Option func(*userImpl)

func WithID(id uuid.UUID) Option {
	return func(u *userImpl) {
		u.id = id
	}
}

func WithName(name string) Option {
	return func(u *userImpl) {
		u.name = name
	}
}

func WithRole(role Role) Option {
	return func(u *userImpl) {
		u.role = role
	}
}

func WithTenantID(tenantID *uuid.UUID) Option {
	return func(u *userImpl) {
		u.tenantID = tenantID
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(u *userImpl) {
		u.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(u *userImpl) {
		u.updatedAt = updatedAt
	}
}

func New(email string, opts ...Option) User {
	u := &userImpl{
		id:        uuid.New(),
		email:     email,
		role:      RoleStandard,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type userImpl struct {
	id        uuid.UUID
	email     string
	name      string
	role      Role
	tenantID  *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

func (u *userImpl) ID() uuid.UUID {
	return u.id
}

func (u *userImpl) Email() string {
	return u.email
}

func (u *userImpl) Name() string {
	return u.name
}

func (u *userImpl) Role() Role {
	return u.role
}

func (u *userImpl) TenantID() *uuid.UUID {
	return u.tenantID
}

func (u *userImpl) IsAdminGlobal() bool {
	return u.role == RoleAdminGlobal && u.tenantID == nil
}

func (u *userImpl) CreatedAt() time.Time {
	return u.createdAt
}

func (u *userImpl) UpdatedAt() time.Time {
	return u.updatedAt
}
