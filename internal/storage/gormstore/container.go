package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/domain/settings"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/storage/migrations"
)

// Container groups the GORM repositories over one connection
type Container struct {
	db           *gorm.DB
	log          *log.Logger
	inviteeRepo  *InviteeRepository
	rsvpRepo     *RSVPRepository
	giftRepo     *GiftRepository
	settingsRepo *SettingsRepository
}

// NewContainer connects, migrates and health-checks the database
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("gorm_container")
	log.Info("Initializing repository container", "driver", cfg.DB.Driver)

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(context.Background()); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("Repository container initialized")
	return container, nil
}

// NewContainerWithDB wraps an existing, already migrated connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:           db,
		log:          logger.Repository("gorm_container"),
		inviteeRepo:  NewInviteeRepository(db),
		rsvpRepo:     NewRSVPRepository(db),
		giftRepo:     NewGiftRepository(db),
		settingsRepo: NewSettingsRepository(db),
	}
}

// Invitees returns the invitee repository
func (c *Container) Invitees() invitee.Repository {
	return c.inviteeRepo
}

// RSVPs returns the RSVP repository
func (c *Container) RSVPs() rsvp.Repository {
	return c.rsvpRepo
}

// Gifts returns the gift repository
func (c *Container) Gifts() gift.Repository {
	return c.giftRepo
}

// Settings returns the settings repository
func (c *Container) Settings() settings.Repository {
	return c.settingsRepo
}

// DB exposes the connection for the migration tooling
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Health pings the database and probes every table
func (c *Container) Health(ctx context.Context) error {
	if err := HealthCheckWithTimeout(c.db, 5*time.Second); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	for _, table := range migrations.Tables() {
		var count int64
		if err := c.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			c.log.Error("Table health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	return nil
}

// Close releases the connection pool
func (c *Container) Close() error {
	c.log.Info("Closing repository container...")
	return Close(c.db)
}
