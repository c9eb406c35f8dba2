package rsvp

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists the RSVP ledger
type Repository interface {
	Ledger
	Writer
	CreateBatch(ctx context.Context, rsvps []*RSVP) error
	GetByID(ctx context.Context, id uuid.UUID) (*RSVP, error)
	List(ctx context.Context) ([]*RSVP, error)
	Update(ctx context.Context, r *RSVP) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
