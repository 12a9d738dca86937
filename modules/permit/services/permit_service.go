package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/permit/domain/entities/permit"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/eventbus"
)

type PermitService struct {
	repo      permit.Repository
	publisher eventbus.EventBus
}

func NewPermitService(repo permit.Repository, publisher eventbus.EventBus) *PermitService {
	return &PermitService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *PermitService) GetByID(ctx context.Context, id uuid.UUID) (*permit.WorkPermit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*permit.WorkPermit, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *PermitService) GetPaginated(ctx context.Context, params *permit.FindParams) ([]*permit.WorkPermit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*permit.WorkPermit, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *PermitService) Count(ctx context.Context, params *permit.FindParams) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

func (s *PermitService) Request(ctx context.Context, p *permit.WorkPermit) (*permit.WorkPermit, error) {
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*permit.WorkPermit, error) {
		return s.repo.Create(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&PermitRequestedEvent{Permit: created})
	return created, nil
}

func (s *PermitService) Approve(ctx context.Context, id, approverID uuid.UUID) (*permit.WorkPermit, error) {
	approved, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*permit.WorkPermit, error) {
		p, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		p.Approve(approverID)
		return s.repo.Update(txCtx, p)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&PermitApprovedEvent{Permit: approved})
	return approved, nil
}

func (s *PermitService) Reject(ctx context.Context, id, approverID uuid.UUID) (*permit.WorkPermit, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*permit.WorkPermit, error) {
		p, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		p.Reject(approverID)
		return s.repo.Update(txCtx, p)
	})
}

// ExpireOutdated marks approved permits whose validity window has passed.
// Meant for a periodic job running per organization.
func (s *PermitService) ExpireOutdated(ctx context.Context, now time.Time) (int, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int, error) {
		status := permit.StatusApproved
		permits, err := s.repo.GetPaginated(txCtx, &permit.FindParams{Status: &status})
		if err != nil {
			return 0, err
		}
		expired := 0
		for _, p := range permits {
			if now.After(p.ValidUntil()) {
				p.Expire()
				if _, err := s.repo.Update(txCtx, p); err != nil {
					return expired, err
				}
				expired++
			}
		}
		return expired, nil
	})
}

func (s *PermitService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

type PermitRequestedEvent struct {
	Permit *permit.WorkPermit
}

type PermitApprovedEvent struct {
	Permit *permit.WorkPermit
}
