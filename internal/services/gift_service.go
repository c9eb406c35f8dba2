package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/convite-api/internal/blob"
	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/validation"
)

// Upload is an image received from the admin area
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (u Upload) validate(maxSize int64) error {
	errs := validation.FieldErrors{}
	if !strings.HasPrefix(u.ContentType, "image/") {
		errs.Add("file", errors.New("only image files are accepted"))
	}
	if maxSize > 0 && u.Size > maxSize {
		errs.Add("file", fmt.Errorf("file exceeds the %d bytes limit", maxSize))
	}
	return errs.OrNil()
}

// GiftService manages the gift registry
type GiftService struct {
	gifts     gift.Repository
	blobs     blob.Store
	publisher realtime.Publisher
	maxUpload int64
	log       *log.Logger
}

// NewGiftService creates a new gift service
func NewGiftService(gifts gift.Repository, blobs blob.Store, publisher realtime.Publisher, maxUpload int64) *GiftService {
	return &GiftService{
		gifts:     gifts,
		blobs:     blobs,
		publisher: publisher,
		maxUpload: maxUpload,
		log:       logger.Service("gift"),
	}
}

// GiftRequest is the admin form for one gift
type GiftRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	ExternalLink string  `json:"external_link"`
}

// Create adds a gift
func (s *GiftService) Create(ctx context.Context, req GiftRequest) (*gift.Gift, error) {
	g := gift.NewGift(req.Name, req.Description, req.Price, req.ImageURL, req.ExternalLink)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.gifts.Create(ctx, g); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionCreated, g.ID.String())
	return g, nil
}

// Get returns one gift
func (s *GiftService) Get(ctx context.Context, id string) (*gift.Gift, error) {
	gid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.gifts.GetByID(ctx, gid)
}

// List returns the registry ordered by price
func (s *GiftService) List(ctx context.Context) ([]*gift.Gift, error) {
	return s.gifts.List(ctx)
}

// Update replaces the editable fields of a gift. A changed image URL
// detaches any uploaded image.
func (s *GiftService) Update(ctx context.Context, id string, req GiftRequest) (*gift.Gift, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldKey := ""
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL != g.ImageURL {
		oldKey = g.ImageKey
		g.ImageKey = ""
	}

	g.Name = strings.TrimSpace(req.Name)
	g.Description = strings.TrimSpace(req.Description)
	g.Price = req.Price
	g.ImageURL = imageURL
	g.ExternalLink = strings.TrimSpace(req.ExternalLink)
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.gifts.Update(ctx, g); err != nil {
		return nil, err
	}

	s.removeObject(ctx, oldKey)
	s.publish(realtime.ActionUpdated, g.ID.String())
	return g, nil
}

// Delete removes a gift and its uploaded image
func (s *GiftService) Delete(ctx context.Context, id string) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gifts.Delete(ctx, g.ID); err != nil {
		return err
	}

	s.removeObject(ctx, g.ImageKey)
	s.publish(realtime.ActionDeleted, g.ID.String())
	return nil
}

// UploadImage stores a picture for the gift, replacing the previous one
func (s *GiftService) UploadImage(ctx context.Context, id string, up Upload) (*gift.Gift, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := up.validate(s.maxUpload); err != nil {
		return nil, err
	}

	key := blob.Key(common.CollectionGifts, up.Filename)
	url, err := s.blobs.Put(ctx, key, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store gift image: %w", err)
	}

	oldKey := g.ImageKey
	g.ImageURL = url
	g.ImageKey = key
	if err := s.gifts.Update(ctx, g); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	s.removeObject(ctx, oldKey)
	s.publish(realtime.ActionUpdated, g.ID.String())
	return g, nil
}

func (s *GiftService) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to delete gift image", "key", key, "error", err)
	}
}

func (s *GiftService) publish(action realtime.Action, id string) {
	s.publisher.Publish(realtime.Change{
		Collection: common.CollectionGifts,
		Action:     action,
		RecordID:   id,
		Count:      1,
	})
}
