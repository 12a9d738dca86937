package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/pkg/eventbus"
)

type UserService struct {
	repo      user.Repository
	publisher eventbus.EventBus
}

func NewUserService(repo user.Repository, publisher eventbus.EventBus) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.repo.List(ctx)
}

// Create registers an account. User provisioning is administrative and runs
// through the privileged channel; the constrained role can only read users.
func (s *UserService) Create(ctx context.Context, u user.User) (user.User, error) {
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(&UserCreatedEvent{User: created})
	return created, nil
}

type UserCreatedEvent struct {
	User user.User
}
