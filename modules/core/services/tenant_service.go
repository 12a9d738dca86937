package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/core/domain/entities/tenant"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/eventbus"
)

// TenantService is the live organization registry. The tenant resolver calls
// GetByID on every request, before any transaction is opened, so lookups run
// straight on the pool.
type TenantService struct {
	repo      tenant.Repository
	publisher eventbus.EventBus
}

func NewTenantService(repo tenant.Repository, publisher eventbus.EventBus) *TenantService {
	return &TenantService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TenantService) GetByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return s.repo.GetByDomain(ctx, domain)
}

func (s *TenantService) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.repo.List(ctx)
}

// Create provisions a new organization. Only the superadmin entrypoint calls
// this; the constrained role has no insert grant on the tenants table.
func (s *TenantService) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&TenantCreatedEvent{Tenant: created})
	return created, nil
}

func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Suspend()
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&TenantSuspendedEvent{Tenant: updated})
	return updated, nil
}

func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Activate()
	return s.repo.Update(ctx, t)
}

type TenantCreatedEvent struct {
	Tenant *tenant.Tenant
}

type TenantSuspendedEvent struct {
	Tenant *tenant.Tenant
}

// ResolveTenant is a convenience for jobs that already have a context bound
// to an organization and need its full record.
func ResolveTenant(ctx context.Context, s *TenantService) (*tenant.Tenant, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tenantID)
}
