package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/pkg/constants"
)

var (
	ErrNoTenantIDFound = errors.New("no tenant id found in context")
	ErrNoUserFound     = errors.New("no user found in context")
)

// Tenant is the request-scoped view of the organization a unit-of-work is
// bound to. It lives exactly as long as the request context that carries it.
type Tenant struct {
	ID     uuid.UUID
	Name   string
	Domain string
}

func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

// UseTenantID returns the tenant id bound to the context. Callers that can
// operate without a tenant (read paths) should use TryUseTenantID instead.
func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoTenantIDFound
	}
	return id, nil
}

// TryUseTenantID reports whether a tenant id is bound without treating its
// absence as an error.
func TryUseTenantID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

func UseUser(ctx context.Context) (user.User, error) {
	u, ok := ctx.Value(constants.UserKey).(user.User)
	if !ok {
		return nil, ErrNoUserFound
	}
	return u, nil
}

// UseUserSafe reports whether an authenticated principal is attached without
// treating its absence as an error.
func UseUserSafe(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(constants.UserKey).(user.User)
	return u, ok
}
