package gormstore

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/logger"
)

// InviteeRepository implements invitee.Repository using GORM
type InviteeRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewInviteeRepository creates a new invitee repository
func NewInviteeRepository(db *gorm.DB) *InviteeRepository {
	return &InviteeRepository{
		db:  db,
		log: logger.Repository("invitee"),
	}
}

func (r *InviteeRepository) Create(ctx context.Context, inv *invitee.Invitee) error {
	r.log.Debug("Creating invitee", "name", inv.FullName)

	inv.ApplyDefaults()
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		r.log.Error("Failed to create invitee", "name", inv.FullName, "error", err)
		return wrap("failed to create invitee", err)
	}

	r.log.Info("Invitee created", "id", inv.ID, "name", inv.FullName)
	return nil
}

// CreateBatch inserts all invitees in one transaction
func (r *InviteeRepository) CreateBatch(ctx context.Context, invitees []*invitee.Invitee) error {
	if len(invitees) == 0 {
		return nil
	}

	for _, inv := range invitees {
		inv.ApplyDefaults()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(invitees, 200).Error
	})
	if err != nil {
		r.log.Error("Failed to create invitee batch", "count", len(invitees), "error", err)
		return wrap("failed to create invitee batch", err)
	}

	r.log.Info("Invitee batch created", "count", len(invitees))
	return nil
}

func (r *InviteeRepository) GetByID(ctx context.Context, id uuid.UUID) (*invitee.Invitee, error) {
	var inv invitee.Invitee
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, wrap("failed to get invitee", err)
	}
	return &inv, nil
}

// List returns the directory ordered by name
func (r *InviteeRepository) List(ctx context.Context) ([]*invitee.Invitee, error) {
	var invitees []*invitee.Invitee
	if err := r.db.WithContext(ctx).Order("normalized_name ASC").Find(&invitees).Error; err != nil {
		r.log.Error("Failed to list invitees", "error", err)
		return nil, wrap("failed to list invitees", err)
	}

	r.log.Debug("Listed invitees", "count", len(invitees))
	return invitees, nil
}

func (r *InviteeRepository) Update(ctx context.Context, inv *invitee.Invitee) error {
	inv.ApplyDefaults()

	result := r.db.WithContext(ctx).Model(inv).Where("id = ?", inv.ID).Updates(map[string]any{
		"full_name":       inv.FullName,
		"normalized_name": inv.NormalizedName,
		"phone_number":    inv.PhoneNumber,
		"category":        inv.Category,
		"guest_limit":     inv.GuestLimit,
	})
	if result.Error != nil {
		r.log.Error("Failed to update invitee", "id", inv.ID, "error", result.Error)
		return wrap("failed to update invitee", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update invitee: %w", common.ErrNotFound)
	}

	r.log.Info("Invitee updated", "id", inv.ID)
	return nil
}

func (r *InviteeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&invitee.Invitee{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("Failed to delete invitee", "id", id, "error", result.Error)
		return wrap("failed to delete invitee", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete invitee: %w", common.ErrNotFound)
	}

	r.log.Info("Invitee deleted", "id", id)
	return nil
}

func (r *InviteeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&invitee.Invitee{}).Count(&count).Error; err != nil {
		return 0, wrap("failed to count invitees", err)
	}
	return count, nil
}
