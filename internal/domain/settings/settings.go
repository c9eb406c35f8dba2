package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/validation"
)

// DefaultMadrinhasColors is the palette shown until the couple picks one
var DefaultMadrinhasColors = []string{"#C21E56", "#8B0044", "#E0115F"}

// EventSettings holds the headline details of the invitation
type EventSettings struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	GroomName string    `json:"groom_name"`
	BrideName string    `json:"bride_name"`
	EventDate string    `json:"event_date"`
	EventTime string    `json:"event_time"`
	VenueName string    `json:"venue_name"`
	Address   string    `json:"address" gorm:"type:text"`
	MapsURL   string    `json:"maps_url"`
	ManualURL string    `json:"manual_url"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (EventSettings) TableName() string {
	return "event_settings"
}

// DefaultEventSettings is returned before the first save
func DefaultEventSettings() *EventSettings {
	return &EventSettings{ID: common.SingletonID}
}

// Validate checks date and link formats
func (e *EventSettings) Validate() error {
	errs := validation.FieldErrors{}
	if e.EventDate != "" {
		if _, err := time.Parse("2006-01-02", e.EventDate); err != nil {
			errs.Add("event_date", errors.New("event date must use the YYYY-MM-DD format"))
		}
	}
	if e.MapsURL != "" {
		errs.Add("maps_url", validation.ValidateURL(e.MapsURL, "maps URL"))
	}
	if e.ManualURL != "" {
		errs.Add("manual_url", validation.ValidateURL(e.ManualURL, "manual URL"))
	}
	return errs.OrNil()
}

// ManualSettings configures the wedding party manual page
type ManualSettings struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	MainText        string    `json:"main_text" gorm:"type:text"`
	MimoText        string    `json:"mimo_text" gorm:"type:text"`
	PasswordEnabled bool      `json:"password_enabled"`
	PasswordHash    string    `json:"-"`
	MadrinhasColors []string  `json:"madrinhas_colors" gorm:"type:text;serializer:json"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (ManualSettings) TableName() string {
	return "manual_settings"
}

// DefaultManualSettings is returned before the first save
func DefaultManualSettings() *ManualSettings {
	return &ManualSettings{
		ID:              common.SingletonID,
		MadrinhasColors: append([]string(nil), DefaultMadrinhasColors...),
	}
}

// Locked reports whether the manual needs a password to be read
func (m *ManualSettings) Locked() bool {
	return m.PasswordEnabled && m.PasswordHash != ""
}

// Validate checks the palette and the password switch
func (m *ManualSettings) Validate() error {
	errs := validation.FieldErrors{}
	for _, c := range m.MadrinhasColors {
		errs.Add("madrinhas_colors", validation.ValidateHexColor(c, "color"))
	}
	if m.PasswordEnabled && m.PasswordHash == "" {
		errs.Add("password", errors.New("a password is required when the gate is enabled"))
	}
	return errs.OrNil()
}

// ImageType tells which side of the wedding party a picture belongs to
type ImageType string

const (
	ImageMadrinhas ImageType = "madrinhas"
	ImagePadrinhos ImageType = "padrinhos"
)

// ParseImageType validates an image type string
func ParseImageType(s string) (ImageType, bool) {
	switch ImageType(strings.ToLower(strings.TrimSpace(s))) {
	case ImageMadrinhas:
		return ImageMadrinhas, true
	case ImagePadrinhos:
		return ImagePadrinhos, true
	default:
		return "", false
	}
}

// ManualImage is one picture of the manual gallery
type ManualImage struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Type       ImageType `json:"type" gorm:"type:varchar(16);not null;index"`
	ImageURL   string    `json:"image_url" gorm:"not null"`
	ImageKey   string    `json:"-"`
	OrderIndex int       `json:"order_index" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (ManualImage) TableName() string {
	return "manual_images"
}

// BeforeCreate sets a UUID before creating the record
func (i *ManualImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Repository persists the singleton documents and the gallery
type Repository interface {
	GetEvent(ctx context.Context) (*EventSettings, error)
	SaveEvent(ctx context.Context, s *EventSettings) error
	GetManual(ctx context.Context) (*ManualSettings, error)
	SaveManual(ctx context.Context, s *ManualSettings) error
	ListImages(ctx context.Context) ([]*ManualImage, error)
	AddImage(ctx context.Context, img *ManualImage) error
	GetImage(ctx context.Context, id uuid.UUID) (*ManualImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}
