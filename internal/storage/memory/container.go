// Package memory keeps every collection in process memory. It backs the
// test suites and DB_DRIVER=memory for local demos.
package memory

import (
	"context"

	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/domain/settings"
)

// Container groups the in-memory repositories
type Container struct {
	invitees *InviteeRepository
	rsvps    *RSVPRepository
	gifts    *GiftRepository
	settings *SettingsRepository
}

func NewContainer() *Container {
	return &Container{
		invitees: NewInviteeRepository(),
		rsvps:    NewRSVPRepository(),
		gifts:    NewGiftRepository(),
		settings: NewSettingsRepository(),
	}
}

func (c *Container) Invitees() invitee.Repository { return c.invitees }

func (c *Container) RSVPs() rsvp.Repository { return c.rsvps }

func (c *Container) Gifts() gift.Repository { return c.gifts }

func (c *Container) Settings() settings.Repository { return c.settings }

// RSVPStore exposes the concrete RSVP store so tests can inject failures
func (c *Container) RSVPStore() *RSVPRepository { return c.rsvps }

func (c *Container) Health(context.Context) error { return nil }

func (c *Container) Close() error { return nil }
