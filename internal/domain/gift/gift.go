package gift

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/convite-api/internal/validation"
)

// Gift is one item of the registry
type Gift struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	Price        float64   `json:"price" gorm:"not null;default:0"`
	ImageURL     string    `json:"image_url"`
	ImageKey     string    `json:"-"`
	ExternalLink string    `json:"external_link"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Gift) TableName() string {
	return "gifts"
}

// BeforeCreate sets a UUID before creating the record
func (g *Gift) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// NewGift creates a gift with a fresh id
func NewGift(name, description string, price float64, imageURL, externalLink string) *Gift {
	return &Gift{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Description:  strings.TrimSpace(description),
		Price:        price,
		ImageURL:     strings.TrimSpace(imageURL),
		ExternalLink: strings.TrimSpace(externalLink),
		CreatedAt:    time.Now(),
	}
}

// Validate checks the registry rules. The image may be attached later
// through an upload, so an empty image URL is accepted.
func (g *Gift) Validate() error {
	v := validation.GiftValidation{}
	errs := validation.FieldErrors{}
	errs.Add("name", v.ValidateGiftName(g.Name))
	errs.Add("price", v.ValidatePrice(g.Price))
	errs.Add("external_link", validation.ValidateURL(g.ExternalLink, "external link"))
	if g.ImageURL != "" && !strings.HasPrefix(g.ImageURL, "data:image/") {
		errs.Add("image_url", validation.ValidateURL(g.ImageURL, "image URL"))
	}
	return errs.OrNil()
}

// Repository persists the registry
type Repository interface {
	Create(ctx context.Context, g *Gift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Gift, error)
	List(ctx context.Context) ([]*Gift, error)
	Update(ctx context.Context, g *Gift) error
	Delete(ctx context.Context, id uuid.UUID) error
}
