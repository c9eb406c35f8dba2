package gormstore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/logger"
)

// GiftRepository implements gift.Repository using GORM
type GiftRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGiftRepository creates a new gift repository
func NewGiftRepository(db *gorm.DB) *GiftRepository {
	return &GiftRepository{
		db:  db,
		log: logger.Repository("gift"),
	}
}

func (r *GiftRepository) Create(ctx context.Context, g *gift.Gift) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		r.log.Error("Failed to create gift", "name", g.Name, "error", err)
		return wrap("failed to create gift", err)
	}

	r.log.Info("Gift created", "id", g.ID, "name", g.Name)
	return nil
}

func (r *GiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*gift.Gift, error) {
	var g gift.Gift
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, wrap("failed to get gift", err)
	}
	return &g, nil
}

// List returns the registry ordered by price, then name
func (r *GiftRepository) List(ctx context.Context) ([]*gift.Gift, error) {
	var gifts []*gift.Gift
	if err := r.db.WithContext(ctx).Order("price ASC").Order("name ASC").Find(&gifts).Error; err != nil {
		r.log.Error("Failed to list gifts", "error", err)
		return nil, wrap("failed to list gifts", err)
	}
	return gifts, nil
}

func (r *GiftRepository) Update(ctx context.Context, g *gift.Gift) error {
	result := r.db.WithContext(ctx).Model(&gift.Gift{}).Where("id = ?", g.ID).Updates(map[string]any{
		"name":          g.Name,
		"description":   g.Description,
		"price":         g.Price,
		"image_url":     g.ImageURL,
		"image_key":     g.ImageKey,
		"external_link": g.ExternalLink,
	})
	if result.Error != nil {
		r.log.Error("Failed to update gift", "id", g.ID, "error", result.Error)
		return wrap("failed to update gift", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update gift: %w", common.ErrNotFound)
	}

	r.log.Info("Gift updated", "id", g.ID)
	return nil
}

func (r *GiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&gift.Gift{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("Failed to delete gift", "id", id, "error", result.Error)
		return wrap("failed to delete gift", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete gift: %w", common.ErrNotFound)
	}

	r.log.Info("Gift deleted", "id", id)
	return nil
}
