package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
)

// InviteeRepository is an in-memory invitee.Repository
type InviteeRepository struct {
	mu       sync.RWMutex
	invitees map[uuid.UUID]invitee.Invitee
}

func NewInviteeRepository() *InviteeRepository {
	return &InviteeRepository{
		invitees: make(map[uuid.UUID]invitee.Invitee),
	}
}

func (r *InviteeRepository) Create(_ context.Context, inv *invitee.Invitee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(inv)
	return nil
}

func (r *InviteeRepository) CreateBatch(_ context.Context, invitees []*invitee.Invitee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range invitees {
		r.insert(inv)
	}
	return nil
}

func (r *InviteeRepository) insert(inv *invitee.Invitee) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.ApplyDefaults()
	now := time.Now().UTC()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = now
	r.invitees[inv.ID] = *inv
}

func (r *InviteeRepository) GetByID(_ context.Context, id uuid.UUID) (*invitee.Invitee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invitees[id]
	if !ok {
		return nil, fmt.Errorf("invitee %s: %w", id, common.ErrNotFound)
	}
	return &inv, nil
}

func (r *InviteeRepository) List(_ context.Context) ([]*invitee.Invitee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*invitee.Invitee, 0, len(r.invitees))
	for _, inv := range r.invitees {
		inv := inv
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NormalizedName == out[j].NormalizedName {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].NormalizedName < out[j].NormalizedName
	})
	return out, nil
}

func (r *InviteeRepository) Update(_ context.Context, inv *invitee.Invitee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.invitees[inv.ID]
	if !ok {
		return fmt.Errorf("invitee %s: %w", inv.ID, common.ErrNotFound)
	}
	inv.ApplyDefaults()
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = time.Now().UTC()
	r.invitees[inv.ID] = *inv
	return nil
}

func (r *InviteeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.invitees[id]; !ok {
		return fmt.Errorf("invitee %s: %w", id, common.ErrNotFound)
	}
	delete(r.invitees, id)
	return nil
}

func (r *InviteeRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.invitees)), nil
}
