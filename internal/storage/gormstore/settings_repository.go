package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/settings"
	"github.com/gravadigital/convite-api/internal/logger"
)

// SettingsRepository implements settings.Repository using GORM.
// Event and manual settings are single rows keyed by common.SingletonID.
type SettingsRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{
		db:  db,
		log: logger.Repository("settings"),
	}
}

// GetEvent returns the stored event settings or the defaults
func (r *SettingsRepository) GetEvent(ctx context.Context) (*settings.EventSettings, error) {
	var s settings.EventSettings
	err := r.db.WithContext(ctx).First(&s, "id = ?", common.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings.DefaultEventSettings(), nil
	}
	if err != nil {
		r.log.Error("Failed to load event settings", "error", err)
		return nil, wrap("failed to load event settings", err)
	}
	return &s, nil
}

func (r *SettingsRepository) SaveEvent(ctx context.Context, s *settings.EventSettings) error {
	s.ID = common.SingletonID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(s).Error
	if err != nil {
		r.log.Error("Failed to save event settings", "error", err)
		return wrap("failed to save event settings", err)
	}

	r.log.Info("Event settings saved")
	return nil
}

// GetManual returns the stored manual settings or the defaults
func (r *SettingsRepository) GetManual(ctx context.Context) (*settings.ManualSettings, error) {
	var s settings.ManualSettings
	err := r.db.WithContext(ctx).First(&s, "id = ?", common.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings.DefaultManualSettings(), nil
	}
	if err != nil {
		r.log.Error("Failed to load manual settings", "error", err)
		return nil, wrap("failed to load manual settings", err)
	}
	if len(s.MadrinhasColors) == 0 {
		s.MadrinhasColors = append([]string(nil), settings.DefaultMadrinhasColors...)
	}
	return &s, nil
}

func (r *SettingsRepository) SaveManual(ctx context.Context, s *settings.ManualSettings) error {
	s.ID = common.SingletonID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(s).Error
	if err != nil {
		r.log.Error("Failed to save manual settings", "error", err)
		return wrap("failed to save manual settings", err)
	}

	r.log.Info("Manual settings saved", "password_enabled", s.PasswordEnabled)
	return nil
}

// ListImages returns the gallery grouped by type, in display order
func (r *SettingsRepository) ListImages(ctx context.Context) ([]*settings.ManualImage, error) {
	var images []*settings.ManualImage
	err := r.db.WithContext(ctx).Order("type ASC").Order("order_index ASC").Find(&images).Error
	if err != nil {
		return nil, wrap("failed to list manual images", err)
	}
	return images, nil
}

// AddImage appends the image at the end of its group
func (r *SettingsRepository) AddImage(ctx context.Context, img *settings.ManualImage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&settings.ManualImage{}).
			Where("type = ?", img.Type).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		img.OrderIndex = last + 1
		return tx.Create(img).Error
	})
	if err != nil {
		r.log.Error("Failed to add manual image", "type", img.Type, "error", err)
		return wrap("failed to add manual image", err)
	}

	r.log.Info("Manual image added", "id", img.ID, "type", img.Type, "order", img.OrderIndex)
	return nil
}

func (r *SettingsRepository) GetImage(ctx context.Context, id uuid.UUID) (*settings.ManualImage, error) {
	var img settings.ManualImage
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, wrap("failed to get manual image", err)
	}
	return &img, nil
}

func (r *SettingsRepository) DeleteImage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&settings.ManualImage{}, "id = ?", id)
	if result.Error != nil {
		return wrap("failed to delete manual image", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete manual image: %w", common.ErrNotFound)
	}

	r.log.Info("Manual image deleted", "id", id)
	return nil
}
