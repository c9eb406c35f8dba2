package migrations

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
)

var (
	sampleInvitees = []*invitee.Invitee{
		{ID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"), FullName: "Maria Silva", PhoneNumber: "(11) 98888-0001", Category: "Família", GuestLimit: 3},
		{ID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440002"), FullName: "João Pereira", PhoneNumber: "(11) 98888-0002", Category: "Amigos", GuestLimit: 2},
		{ID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440003"), FullName: "Ana Souza", PhoneNumber: "(21) 97777-0003", Category: "Trabalho", GuestLimit: 1},
		{ID: uuid.MustParse("550e8400-e29b-41d4-a716-446655440004"), FullName: "Carlos Oliveira", PhoneNumber: "(31) 96666-0004", Category: "Família", GuestLimit: 4},
	}

	sampleRSVPs = []*rsvp.RSVP{
		{
			ID:             uuid.MustParse("660e8400-e29b-41d4-a716-446655440001"),
			InviteeID:      &sampleInvitees[0].ID,
			FullName:       "Maria Silva",
			IsAttending:    true,
			NumberOfGuests: 2,
			GuestNames: []rsvp.Companion{
				{Name: "Pedro Silva", Type: rsvp.CompanionAdult},
				{Name: "Lia Silva", Type: rsvp.CompanionChild},
			},
			PhoneNumber: "(11) 98888-0001",
			Message:     "Estaremos lá!",
			Source:      rsvp.SourceForm,
		},
		{
			ID:          uuid.MustParse("660e8400-e29b-41d4-a716-446655440002"),
			InviteeID:   &sampleInvitees[2].ID,
			FullName:    "Ana Souza",
			IsAttending: false,
			GuestNames:  []rsvp.Companion{},
			PhoneNumber: "(21) 97777-0003",
			Source:      rsvp.SourceForm,
		},
	}

	sampleGifts = []*gift.Gift{
		{ID: uuid.MustParse("770e8400-e29b-41d4-a716-446655440001"), Name: "Jogo de panelas", Price: 450, ExternalLink: "https://example.com/panelas"},
		{ID: uuid.MustParse("770e8400-e29b-41d4-a716-446655440002"), Name: "Cafeteira", Price: 320.5, ExternalLink: "https://example.com/cafeteira"},
		{ID: uuid.MustParse("770e8400-e29b-41d4-a716-446655440003"), Name: "Jantar romântico", Price: 200, ExternalLink: "https://example.com/jantar"},
	}
)

// SeedSampleData inserts a small guest list, two answers and a registry
// for local development. Rows that already exist are left untouched.
func SeedSampleData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		onConflict := tx.Clauses(clause.OnConflict{DoNothing: true})
		if err := onConflict.Create(sampleInvitees).Error; err != nil {
			return err
		}
		if err := onConflict.Create(sampleRSVPs).Error; err != nil {
			return err
		}
		return onConflict.Create(sampleGifts).Error
	})
}

// RemoveSampleData deletes the rows inserted by SeedSampleData
func RemoveSampleData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, r := range sampleRSVPs {
			if err := tx.Delete(&rsvp.RSVP{}, "id = ?", r.ID).Error; err != nil {
				return err
			}
		}
		for _, inv := range sampleInvitees {
			if err := tx.Delete(&invitee.Invitee{}, "id = ?", inv.ID).Error; err != nil {
				return err
			}
		}
		for _, g := range sampleGifts {
			if err := tx.Delete(&gift.Gift{}, "id = ?", g.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
