package invitee

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the invitee directory
type Repository interface {
	Create(ctx context.Context, inv *Invitee) error
	CreateBatch(ctx context.Context, invitees []*Invitee) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invitee, error)
	List(ctx context.Context) ([]*Invitee, error)
	Update(ctx context.Context, inv *Invitee) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
