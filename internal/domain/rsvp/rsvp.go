package rsvp

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/validation"
)

// CompanionType classifies a companion for catering and headcount
type CompanionType string

const (
	CompanionAdult CompanionType = "adult"
	CompanionChild CompanionType = "child"
)

// Valid reports whether t is a known companion type
func (t CompanionType) Valid() bool {
	return t == CompanionAdult || t == CompanionChild
}

// ParseCompanionType accepts the English and Portuguese spellings
func ParseCompanionType(s string) (CompanionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "adult", "adulto", "adulta":
		return CompanionAdult, true
	case "child", "crianca", "criança":
		return CompanionChild, true
	default:
		return "", false
	}
}

// Companion is a guest attending under another invitee's invitation
type Companion struct {
	Name string        `json:"name"`
	Type CompanionType `json:"type"`
}

// Source records how an RSVP entered the ledger
type Source string

const (
	SourceForm   Source = "form"
	SourceAdmin  Source = "admin"
	SourceImport Source = "import"
)

// CompanionLimit bounds the companions of a single RSVP, whatever the
// invitation allows
const CompanionLimit = 50

// RSVP is one attendance confirmation
type RSVP struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	InviteeID      *uuid.UUID  `json:"invitee_id,omitempty" gorm:"type:uuid;index"`
	FullName       string      `json:"full_name" gorm:"not null"`
	NormalizedName string      `json:"-" gorm:"not null;index"`
	IsAttending    bool        `json:"is_attending" gorm:"not null"`
	NumberOfGuests int         `json:"number_of_guests" gorm:"not null;default:0"`
	GuestNames     []Companion `json:"guest_names" gorm:"type:text;serializer:json"`
	PhoneNumber    string      `json:"phone_number"`
	Message        string      `json:"message,omitempty" gorm:"type:text"`
	Source         Source      `json:"source" gorm:"type:varchar(16);not null;default:'form'"`
	CreatedAt      time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (RSVP) TableName() string {
	return "rsvps"
}

// BeforeSave sets the id and the lookup key
func (r *RSVP) BeforeSave(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.NormalizedName = invitee.NormalizeName(r.FullName)
	return nil
}

// Normalize enforces the attendance invariants:
// declining clears companions, attending sizes the list to the count.
// Counts above CompanionLimit and shrinks that would drop a named
// companion leave the list alone for Validate to report.
func (r *RSVP) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.NormalizedName = invitee.NormalizeName(r.FullName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if r.Source == "" {
		r.Source = SourceAdmin
	}

	if !r.IsAttending {
		r.NumberOfGuests = 0
		r.GuestNames = []Companion{}
		return
	}

	if r.NumberOfGuests < 0 {
		r.NumberOfGuests = 0
	}
	if r.NumberOfGuests <= CompanionLimit && !dropsNamed(r.GuestNames, r.NumberOfGuests) {
		r.GuestNames = ResizeCompanions(r.GuestNames, r.NumberOfGuests)
	}
	if r.GuestNames == nil {
		r.GuestNames = []Companion{}
	}
	for i := range r.GuestNames {
		r.GuestNames[i].Name = strings.TrimSpace(r.GuestNames[i].Name)
		if !r.GuestNames[i].Type.Valid() {
			r.GuestNames[i].Type = CompanionAdult
		}
	}
}

// Validate checks an RSVP written through the admin surface or an import.
// Intake submissions go through Intake.Validate, which is stricter.
func (r *RSVP) Validate() error {
	errs := validation.FieldErrors{}
	errs.Add("full_name", validation.ValidateMinLength(r.FullName, 2, "full name"))
	if r.NumberOfGuests < 0 {
		errs.Add("number_of_guests", fmt.Errorf("number of guests cannot be negative"))
	}
	if r.NumberOfGuests > CompanionLimit {
		errs.Add("number_of_guests", fmt.Errorf("number of guests cannot exceed %d", CompanionLimit))
	}
	if !r.IsAttending && r.NumberOfGuests != 0 {
		errs.Add("number_of_guests", fmt.Errorf("number of guests must be 0 when not attending"))
	}
	if r.IsAttending && len(r.GuestNames) != r.NumberOfGuests {
		errs.Add("guest_names", fmt.Errorf("expected %d companions, got %d", r.NumberOfGuests, len(r.GuestNames)))
	}
	return errs.OrNil()
}

func dropsNamed(list []Companion, n int) bool {
	for i := max(n, 0); i < len(list); i++ {
		if strings.TrimSpace(list[i].Name) != "" {
			return true
		}
	}
	return false
}

// Headcount is the number of people this confirmation brings
func (r *RSVP) Headcount() int {
	if !r.IsAttending {
		return 0
	}
	return 1 + r.NumberOfGuests
}
