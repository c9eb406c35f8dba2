package invitee

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/validation"
)

// DefaultCategory is used when an invitee is created without a grouping
const DefaultCategory = "Geral"

// Invitee is one entry of the pre-registered guest list
type Invitee struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName       string    `json:"full_name" gorm:"not null"`
	NormalizedName string    `json:"-" gorm:"not null;index"`
	PhoneNumber    string    `json:"phone_number"`
	Category       string    `json:"category" gorm:"not null;default:'Geral'"`
	GuestLimit     int       `json:"guest_limit" gorm:"not null;default:1"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Invitee) TableName() string {
	return "invitees"
}

// BeforeSave keeps the id and the normalized lookup key in sync
func (i *Invitee) BeforeSave(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.NormalizedName = NormalizeName(i.FullName)
	return nil
}

// NewInvitee creates an invitee with a stable identifier
func NewInvitee(fullName, phone, category string, guestLimit int) *Invitee {
	inv := &Invitee{
		ID:          uuid.New(),
		FullName:    strings.TrimSpace(fullName),
		PhoneNumber: strings.TrimSpace(phone),
		Category:    strings.TrimSpace(category),
		GuestLimit:  guestLimit,
		CreatedAt:   time.Now(),
	}
	inv.ApplyDefaults()
	return inv
}

// ApplyDefaults fills the category, the limit and the lookup key
func (i *Invitee) ApplyDefaults() {
	if i.Category == "" {
		i.Category = DefaultCategory
	}
	if i.GuestLimit < 1 {
		i.GuestLimit = 1
	}
	i.NormalizedName = NormalizeName(i.FullName)
}

// Validate checks if the invitee data is valid
func (i *Invitee) Validate() error {
	v := validation.InviteeValidation{}
	errs := validation.FieldErrors{}
	errs.Add("full_name", validation.ValidateMinLength(i.FullName, 2, "full name"))
	errs.Add("guest_limit", v.ValidateGuestLimit(i.GuestLimit))
	return errs.OrNil()
}

// MaxCompanions is the number of companions this invitation allows
func (i *Invitee) MaxCompanions() int {
	return MaxCompanions(i.GuestLimit)
}

// MaxCompanions derives the companion allowance from a party-size limit
// that already counts the named guest.
func MaxCompanions(guestLimit int) int {
	if guestLimit <= 1 {
		return 0
	}
	return guestLimit - 1
}

// NormalizeName lowercases, trims and collapses inner whitespace
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
