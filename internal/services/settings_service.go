package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/blob"
	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/settings"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/validation"
)

// ErrManualLocked is returned when the manual is read without a valid unlock token
var ErrManualLocked = errors.New("the manual is password protected")

// SettingsService manages the invitation details and the wedding party manual
type SettingsService struct {
	settings  settings.Repository
	gifts     gift.Repository
	blobs     blob.Store
	issuer    *auth.Issuer
	manualTTL time.Duration
	maxUpload int64
	publisher realtime.Publisher
	log       *log.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo settings.Repository, gifts gift.Repository, blobs blob.Store, issuer *auth.Issuer, manualTTL time.Duration, maxUpload int64, publisher realtime.Publisher) *SettingsService {
	return &SettingsService{
		settings:  repo,
		gifts:     gifts,
		blobs:     blobs,
		issuer:    issuer,
		manualTTL: manualTTL,
		maxUpload: maxUpload,
		publisher: publisher,
		log:       logger.Service("settings"),
	}
}

// Invitation is the public landing page payload
type Invitation struct {
	Event *settings.EventSettings `json:"event"`
	Gifts []*gift.Gift            `json:"gifts"`
}

// Invitation returns the event details and the gift registry
func (s *SettingsService) Invitation(ctx context.Context) (*Invitation, error) {
	event, err := s.settings.GetEvent(ctx)
	if err != nil {
		return nil, err
	}
	gifts, err := s.gifts.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Invitation{Event: event, Gifts: gifts}, nil
}

// Event returns the event settings
func (s *SettingsService) Event(ctx context.Context) (*settings.EventSettings, error) {
	return s.settings.GetEvent(ctx)
}

// EventRequest is the admin form for the event settings
type EventRequest struct {
	GroomName string `json:"groom_name"`
	BrideName string `json:"bride_name"`
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time"`
	VenueName string `json:"venue_name"`
	Address   string `json:"address"`
	MapsURL   string `json:"maps_url"`
	ManualURL string `json:"manual_url"`
}

// SaveEvent replaces the event settings
func (s *SettingsService) SaveEvent(ctx context.Context, req EventRequest) (*settings.EventSettings, error) {
	event := &settings.EventSettings{
		ID:        common.SingletonID,
		GroomName: strings.TrimSpace(req.GroomName),
		BrideName: strings.TrimSpace(req.BrideName),
		EventDate: strings.TrimSpace(req.EventDate),
		EventTime: strings.TrimSpace(req.EventTime),
		VenueName: strings.TrimSpace(req.VenueName),
		Address:   strings.TrimSpace(req.Address),
		MapsURL:   strings.TrimSpace(req.MapsURL),
		ManualURL: strings.TrimSpace(req.ManualURL),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.settings.SaveEvent(ctx, event); err != nil {
		return nil, err
	}

	s.publish(common.CollectionEventSettings, realtime.ActionUpdated, event.ID)
	return event, nil
}

// Manual returns the manual settings for the admin area
func (s *SettingsService) Manual(ctx context.Context) (*settings.ManualSettings, error) {
	return s.settings.GetManual(ctx)
}

// ManualRequest is the admin form for the manual settings. Password is
// only replaced when a new one is sent.
type ManualRequest struct {
	MainText        string   `json:"main_text"`
	MimoText        string   `json:"mimo_text"`
	PasswordEnabled bool     `json:"password_enabled"`
	Password        string   `json:"password"`
	MadrinhasColors []string `json:"madrinhas_colors"`
}

// SaveManual replaces the manual settings, hashing a new password
func (s *SettingsService) SaveManual(ctx context.Context, req ManualRequest) (*settings.ManualSettings, error) {
	current, err := s.settings.GetManual(ctx)
	if err != nil {
		return nil, err
	}

	manual := &settings.ManualSettings{
		ID:              common.SingletonID,
		MainText:        strings.TrimSpace(req.MainText),
		MimoText:        strings.TrimSpace(req.MimoText),
		PasswordEnabled: req.PasswordEnabled,
		PasswordHash:    current.PasswordHash,
		MadrinhasColors: req.MadrinhasColors,
	}
	if manual.MadrinhasColors == nil {
		manual.MadrinhasColors = current.MadrinhasColors
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			errs := validation.FieldErrors{}
			errs.Add("password", err)
			return nil, errs
		}
		manual.PasswordHash = hash
	}

	if err := manual.Validate(); err != nil {
		return nil, err
	}

	if err := s.settings.SaveManual(ctx, manual); err != nil {
		return nil, err
	}

	s.publish(common.CollectionManualSettings, realtime.ActionUpdated, manual.ID)
	return manual, nil
}

// UnlockResult carries the token that opens the manual
type UnlockResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Unlock checks the manual password and issues a manual-scope token
func (s *SettingsService) Unlock(ctx context.Context, password string) (*UnlockResult, error) {
	manual, err := s.settings.GetManual(ctx)
	if err != nil {
		return nil, err
	}

	if manual.Locked() {
		if err := auth.CheckPassword(manual.PasswordHash, password); err != nil {
			s.log.Warn("Manual unlock rejected")
			return nil, err
		}
	}

	token, expiresAt, err := s.issuer.Issue("manual", auth.ScopeManual, s.manualTTL)
	if err != nil {
		return nil, err
	}
	return &UnlockResult{Token: token, ExpiresAt: expiresAt}, nil
}

// ManualPage is the public manual payload
type ManualPage struct {
	Settings *settings.ManualSettings `json:"settings"`
	Images   []*settings.ManualImage  `json:"images"`
}

// PublicManual returns the manual, requiring a manual or admin token when locked
func (s *SettingsService) PublicManual(ctx context.Context, token string) (*ManualPage, error) {
	manual, err := s.settings.GetManual(ctx)
	if err != nil {
		return nil, err
	}

	if manual.Locked() {
		if token == "" {
			return nil, ErrManualLocked
		}
		if _, err := s.issuer.Require(token, auth.ScopeManual); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrManualLocked, err)
		}
	}

	images, err := s.settings.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	return &ManualPage{Settings: manual, Images: images}, nil
}

// Images lists the manual gallery
func (s *SettingsService) Images(ctx context.Context) ([]*settings.ManualImage, error) {
	return s.settings.ListImages(ctx)
}

// UploadImage appends a picture to one side of the gallery
func (s *SettingsService) UploadImage(ctx context.Context, imageType string, up Upload) (*settings.ManualImage, error) {
	kind, ok := settings.ParseImageType(imageType)
	if !ok {
		errs := validation.FieldErrors{}
		errs.Add("type", errors.New("type must be madrinhas or padrinhos"))
		return nil, errs
	}
	if err := up.validate(s.maxUpload); err != nil {
		return nil, err
	}

	key := blob.Key(path.Join(common.CollectionManualImages, string(kind)), up.Filename)
	url, err := s.blobs.Put(ctx, key, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store manual image: %w", err)
	}

	img := &settings.ManualImage{Type: kind, ImageURL: url, ImageKey: key}
	if err := s.settings.AddImage(ctx, img); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	s.publish(common.CollectionManualImages, realtime.ActionCreated, img.ID.String())
	return img, nil
}

// DeleteImage removes a gallery picture and its stored object
func (s *SettingsService) DeleteImage(ctx context.Context, id string) error {
	iid, err := parseID(id, "id")
	if err != nil {
		return err
	}

	img, err := s.settings.GetImage(ctx, iid)
	if err != nil {
		return err
	}
	if err := s.settings.DeleteImage(ctx, iid); err != nil {
		return err
	}

	s.removeObject(ctx, img.ImageKey)
	s.publish(common.CollectionManualImages, realtime.ActionDeleted, iid.String())
	return nil
}

func (s *SettingsService) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.log.Warn("Failed to delete manual image", "key", key, "error", err)
	}
}

func (s *SettingsService) publish(collection string, action realtime.Action, id string) {
	s.publisher.Publish(realtime.Change{
		Collection: collection,
		Action:     action,
		RecordID:   id,
		Count:      1,
	})
}
