package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/settings"
)

// SettingsRepository is an in-memory settings.Repository
type SettingsRepository struct {
	mu     sync.RWMutex
	event  *settings.EventSettings
	manual *settings.ManualSettings
	images map[uuid.UUID]settings.ManualImage
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{
		images: make(map[uuid.UUID]settings.ManualImage),
	}
}

func (r *SettingsRepository) GetEvent(_ context.Context) (*settings.EventSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.event == nil {
		return settings.DefaultEventSettings(), nil
	}
	out := *r.event
	return &out, nil
}

func (r *SettingsRepository) SaveEvent(_ context.Context, s *settings.EventSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = common.SingletonID
	s.UpdatedAt = time.Now().UTC()
	stored := *s
	r.event = &stored
	return nil
}

func (r *SettingsRepository) GetManual(_ context.Context) (*settings.ManualSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.manual == nil {
		return settings.DefaultManualSettings(), nil
	}
	out := *r.manual
	out.MadrinhasColors = append([]string(nil), r.manual.MadrinhasColors...)
	if len(out.MadrinhasColors) == 0 {
		out.MadrinhasColors = append([]string(nil), settings.DefaultMadrinhasColors...)
	}
	return &out, nil
}

func (r *SettingsRepository) SaveManual(_ context.Context, s *settings.ManualSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = common.SingletonID
	s.UpdatedAt = time.Now().UTC()
	stored := *s
	stored.MadrinhasColors = append([]string(nil), s.MadrinhasColors...)
	r.manual = &stored
	return nil
}

func (r *SettingsRepository) ListImages(_ context.Context) ([]*settings.ManualImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*settings.ManualImage, 0, len(r.images))
	for _, img := range r.images {
		img := img
		out = append(out, &img)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type == out[j].Type {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

// AddImage appends the image at the end of its group
func (r *SettingsRepository) AddImage(_ context.Context, img *settings.ManualImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	last := 0
	for _, existing := range r.images {
		if existing.Type == img.Type && existing.OrderIndex > last {
			last = existing.OrderIndex
		}
	}
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	img.OrderIndex = last + 1
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	r.images[img.ID] = *img
	return nil
}

func (r *SettingsRepository) GetImage(_ context.Context, id uuid.UUID) (*settings.ManualImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, fmt.Errorf("manual image %s: %w", id, common.ErrNotFound)
	}
	return &img, nil
}

func (r *SettingsRepository) DeleteImage(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return fmt.Errorf("manual image %s: %w", id, common.ErrNotFound)
	}
	delete(r.images, id)
	return nil
}
