package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/station/domain/entities/station"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/eventbus"
)

type StationService struct {
	repo      station.Repository
	publisher eventbus.EventBus
}

func NewStationService(repo station.Repository, publisher eventbus.EventBus) *StationService {
	return &StationService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *StationService) GetByID(ctx context.Context, id uuid.UUID) (*station.Station, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*station.Station, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *StationService) GetPaginated(ctx context.Context, params *station.FindParams) ([]*station.Station, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]*station.Station, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *StationService) Count(ctx context.Context, params *station.FindParams) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx, params)
	})
}

func (s *StationService) Create(ctx context.Context, st *station.Station) (*station.Station, error) {
	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*station.Station, error) {
		return s.repo.Create(txCtx, st)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&StationCreatedEvent{Station: created})
	return created, nil
}

func (s *StationService) Update(ctx context.Context, st *station.Station) (*station.Station, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*station.Station, error) {
		return s.repo.Update(txCtx, st)
	})
}

func (s *StationService) Deactivate(ctx context.Context, id uuid.UUID) (*station.Station, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*station.Station, error) {
		st, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		st.Deactivate()
		return s.repo.Update(txCtx, st)
	})
}

func (s *StationService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

type StationCreatedEvent struct {
	Station *station.Station
}
