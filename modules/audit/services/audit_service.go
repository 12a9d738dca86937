package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/audit/domain/entities/audit"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/eventbus"
)

type AuditService struct {
	repo      audit.Repository
	publisher eventbus.EventBus
}

func NewAuditService(repo audit.Repository, publisher eventbus.EventBus) *AuditService {
	return &AuditService{
		repo:      repo,
		publisher: publisher,
	}
}

// Reads run inside tenant-bound transactions too: the row-level policies
// only admit rows after the binding is applied to the transaction.
func (s *AuditService) GetByID(ctx context.Context, id uuid.UUID) (*audit.Audit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*audit.Audit, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *AuditService) GetPaginated(ctx context.Context, params *audit.FindParams) ([]*audit.Audit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*audit.Audit, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *AuditService) Count(ctx context.Context, params *audit.FindParams) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

func (s *AuditService) Create(ctx context.Context, a *audit.Audit) (*audit.Audit, error) {
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*audit.Audit, error) {
		return s.repo.Create(txCtx, a)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&AuditCreatedEvent{Audit: created})
	return created, nil
}

func (s *AuditService) Start(ctx context.Context, id uuid.UUID) (*audit.Audit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*audit.Audit, error) {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		a.Start()
		return s.repo.Update(txCtx, a)
	})
}

// Complete closes the audit with its final score and publishes the
// completion event.
func (s *AuditService) Complete(ctx context.Context, id uuid.UUID, score float64) (*audit.Audit, error) {
	completed, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*audit.Audit, error) {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		a.Complete(score)
		return s.repo.Update(txCtx, a)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&AuditCompletedEvent{Audit: completed})
	return completed, nil
}

func (s *AuditService) Cancel(ctx context.Context, id uuid.UUID) (*audit.Audit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*audit.Audit, error) {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		a.Cancel()
		return s.repo.Update(txCtx, a)
	})
}

func (s *AuditService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

type AuditCreatedEvent struct {
	Audit *audit.Audit
}

type AuditCompletedEvent struct {
	Audit *audit.Audit
}
