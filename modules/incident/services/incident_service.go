package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/incident/domain/entities/incident"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/eventbus"
)

type IncidentService struct {
	repo      incident.Repository
	publisher eventbus.EventBus
}

func NewIncidentService(repo incident.Repository, publisher eventbus.EventBus) *IncidentService {
	return &IncidentService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *IncidentService) GetByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *IncidentService) GetPaginated(ctx context.Context, params *incident.FindParams) ([]*incident.Incident, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*incident.Incident, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *IncidentService) Count(ctx context.Context, params *incident.FindParams) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

// Report files a new incident for the bound organization. Critical incidents
// are published for downstream handlers (escalation, notifications).
func (s *IncidentService) Report(ctx context.Context, i *incident.Incident) (*incident.Incident, error) {
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		return s.repo.Create(txCtx, i)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&IncidentReportedEvent{Incident: created})
	return created, nil
}

func (s *IncidentService) Investigate(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		i, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		i.Investigate()
		return s.repo.Update(txCtx, i)
	})
}

func (s *IncidentService) Resolve(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	resolved, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*incident.Incident, error) {
		i, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		i.Resolve()
		return s.repo.Update(txCtx, i)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&IncidentResolvedEvent{Incident: resolved})
	return resolved, nil
}

func (s *IncidentService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

type IncidentReportedEvent struct {
	Incident *incident.Incident
}

type IncidentResolvedEvent struct {
	Incident *incident.Incident
}
