package audit

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	StationID *uuid.UUID
	Status    *Status
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Audit, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Audit, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, a *Audit) (*Audit, error)
	Update(ctx context.Context, a *Audit) (*Audit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
