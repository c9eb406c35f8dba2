package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/gift"
)

// GiftRepository is an in-memory gift.Repository
type GiftRepository struct {
	mu    sync.RWMutex
	gifts map[uuid.UUID]gift.Gift
}

func NewGiftRepository() *GiftRepository {
	return &GiftRepository{
		gifts: make(map[uuid.UUID]gift.Gift),
	}
}

func (r *GiftRepository) Create(_ context.Context, g *gift.Gift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	r.gifts[g.ID] = *g
	return nil
}

func (r *GiftRepository) GetByID(_ context.Context, id uuid.UUID) (*gift.Gift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gifts[id]
	if !ok {
		return nil, fmt.Errorf("gift %s: %w", id, common.ErrNotFound)
	}
	return &g, nil
}

// List returns the registry ordered by price, then name
func (r *GiftRepository) List(_ context.Context) ([]*gift.Gift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*gift.Gift, 0, len(r.gifts))
	for _, g := range r.gifts {
		g := g
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price == out[j].Price {
			return out[i].Name < out[j].Name
		}
		return out[i].Price < out[j].Price
	})
	return out, nil
}

func (r *GiftRepository) Update(_ context.Context, g *gift.Gift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.gifts[g.ID]
	if !ok {
		return fmt.Errorf("gift %s: %w", g.ID, common.ErrNotFound)
	}
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now().UTC()
	r.gifts[g.ID] = *g
	return nil
}

func (r *GiftRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gifts[id]; !ok {
		return fmt.Errorf("gift %s: %w", id, common.ErrNotFound)
	}
	delete(r.gifts, id)
	return nil
}
