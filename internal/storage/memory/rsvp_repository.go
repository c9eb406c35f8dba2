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
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
)

// RSVPRepository is an in-memory rsvp.Repository
type RSVPRepository struct {
	mu         sync.RWMutex
	rsvps      map[uuid.UUID]rsvp.RSVP
	failWrites error
}

func NewRSVPRepository() *RSVPRepository {
	return &RSVPRepository{
		rsvps: make(map[uuid.UUID]rsvp.RSVP),
	}
}

// FailWrites makes every subsequent write return err; nil restores writes
func (r *RSVPRepository) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWrites = err
}

func (r *RSVPRepository) Create(_ context.Context, rec *rsvp.RSVP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWrites != nil {
		return r.failWrites
	}
	r.insert(rec)
	return nil
}

func (r *RSVPRepository) CreateBatch(_ context.Context, rsvps []*rsvp.RSVP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWrites != nil {
		return r.failWrites
	}
	for _, rec := range rsvps {
		r.insert(rec)
	}
	return nil
}

func (r *RSVPRepository) insert(rec *rsvp.RSVP) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.NormalizedName = invitee.NormalizeName(rec.FullName)
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.rsvps[rec.ID] = cloneRSVP(rec)
}

func (r *RSVPRepository) ExistsByName(_ context.Context, normalizedName string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.rsvps {
		if rec.NormalizedName == normalizedName {
			return true, nil
		}
	}
	return false, nil
}

func (r *RSVPRepository) GetByID(_ context.Context, id uuid.UUID) (*rsvp.RSVP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.rsvps[id]
	if !ok {
		return nil, fmt.Errorf("rsvp %s: %w", id, common.ErrNotFound)
	}
	out := cloneRSVP(&rec)
	return &out, nil
}

// List returns the ledger, newest first
func (r *RSVPRepository) List(_ context.Context) ([]*rsvp.RSVP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*rsvp.RSVP, 0, len(r.rsvps))
	for _, rec := range r.rsvps {
		c := cloneRSVP(&rec)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RSVPRepository) Update(_ context.Context, rec *rsvp.RSVP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rsvps[rec.ID]
	if !ok {
		return fmt.Errorf("rsvp %s: %w", rec.ID, common.ErrNotFound)
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	rec.NormalizedName = invitee.NormalizeName(rec.FullName)
	r.rsvps[rec.ID] = cloneRSVP(rec)
	return nil
}

func (r *RSVPRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rsvps[id]; !ok {
		return fmt.Errorf("rsvp %s: %w", id, common.ErrNotFound)
	}
	delete(r.rsvps, id)
	return nil
}

func (r *RSVPRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rsvps)), nil
}

func cloneRSVP(rec *rsvp.RSVP) rsvp.RSVP {
	out := *rec
	out.GuestNames = append([]rsvp.Companion{}, rec.GuestNames...)
	if rec.InviteeID != nil {
		id := *rec.InviteeID
		out.InviteeID = &id
	}
	return out
}
