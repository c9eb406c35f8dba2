package gormstore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/logger"
)

// RSVPRepository implements rsvp.Repository using GORM
type RSVPRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewRSVPRepository creates a new RSVP repository
func NewRSVPRepository(db *gorm.DB) *RSVPRepository {
	return &RSVPRepository{
		db:  db,
		log: logger.Repository("rsvp"),
	}
}

func (r *RSVPRepository) Create(ctx context.Context, rec *rsvp.RSVP) error {
	r.log.Debug("Creating RSVP", "name", rec.FullName, "attending", rec.IsAttending)

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		r.log.Error("Failed to create RSVP", "name", rec.FullName, "error", err)
		return wrap("failed to create RSVP", err)
	}

	r.log.Info("RSVP created", "id", rec.ID, "attending", rec.IsAttending, "guests", rec.NumberOfGuests)
	return nil
}

func (r *RSVPRepository) CreateBatch(ctx context.Context, rsvps []*rsvp.RSVP) error {
	if len(rsvps) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rsvps, 200).Error
	})
	if err != nil {
		r.log.Error("Failed to create RSVP batch", "count", len(rsvps), "error", err)
		return wrap("failed to create RSVP batch", err)
	}

	r.log.Info("RSVP batch created", "count", len(rsvps))
	return nil
}

// ExistsByName reports whether any RSVP carries the normalized name
func (r *RSVPRepository) ExistsByName(ctx context.Context, normalizedName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&rsvp.RSVP{}).
		Where("normalized_name = ?", normalizedName).
		Limit(1).
		Count(&count).Error
	if err != nil {
		r.log.Error("Failed to check RSVP existence", "error", err)
		return false, wrap("failed to check RSVP existence", err)
	}
	return count > 0, nil
}

func (r *RSVPRepository) GetByID(ctx context.Context, id uuid.UUID) (*rsvp.RSVP, error) {
	var rec rsvp.RSVP
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, wrap("failed to get RSVP", err)
	}
	return &rec, nil
}

// List returns the ledger, newest first
func (r *RSVPRepository) List(ctx context.Context) ([]*rsvp.RSVP, error) {
	var rsvps []*rsvp.RSVP
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rsvps).Error; err != nil {
		r.log.Error("Failed to list RSVPs", "error", err)
		return nil, wrap("failed to list RSVPs", err)
	}
	return rsvps, nil
}

// Update replaces the stored record; Save writes zero values too
func (r *RSVPRepository) Update(ctx context.Context, rec *rsvp.RSVP) error {
	var existing rsvp.RSVP
	if err := r.db.WithContext(ctx).Select("id", "created_at").First(&existing, "id = ?", rec.ID).Error; err != nil {
		return wrap("failed to update RSVP", err)
	}
	rec.CreatedAt = existing.CreatedAt

	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		r.log.Error("Failed to update RSVP", "id", rec.ID, "error", err)
		return wrap("failed to update RSVP", err)
	}

	r.log.Info("RSVP updated", "id", rec.ID)
	return nil
}

func (r *RSVPRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&rsvp.RSVP{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("Failed to delete RSVP", "id", id, "error", result.Error)
		return wrap("failed to delete RSVP", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete RSVP: %w", common.ErrNotFound)
	}

	r.log.Info("RSVP deleted", "id", id)
	return nil
}

func (r *RSVPRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&rsvp.RSVP{}).Count(&count).Error; err != nil {
		return 0, wrap("failed to count RSVPs", err)
	}
	return count, nil
}
