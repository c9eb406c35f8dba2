package migrations

import (
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/domain/settings"
)

// Models returns every persisted model in creation order
func Models() []any {
	return []any{
		&invitee.Invitee{},
		&rsvp.RSVP{},
		&gift.Gift{},
		&settings.EventSettings{},
		&settings.ManualSettings{},
		&settings.ManualImage{},
	}
}

// Tables returns the table names in creation order
func Tables() []string {
	return []string{
		invitee.Invitee{}.TableName(),
		rsvp.RSVP{}.TableName(),
		gift.Gift{}.TableName(),
		settings.EventSettings{}.TableName(),
		settings.ManualSettings{}.TableName(),
		settings.ManualImage{}.TableName(),
	}
}
