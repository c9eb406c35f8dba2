// Package services holds the use cases behind the HTTP handlers and the CLI.
package services

import (
	"github.com/gravadigital/convite-api/internal/ai"
	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/blob"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/storage"
)

// Dependencies are the adapters the services are built on
type Dependencies struct {
	Storage   storage.Container
	Blobs     blob.Store
	Generator ai.Generator
	Issuer    *auth.Issuer
	Publisher realtime.Publisher
	Metrics   *metrics.Metrics
}

// Services groups every use case of the application
type Services struct {
	Auth      *AuthService
	Invitees  *InviteeService
	RSVPs     *RSVPService
	Gifts     *GiftService
	Settings  *SettingsService
	Messages  *MessageService
	Reports   *ReportService
	Dashboard *DashboardService
}

// New wires the services from the configuration and the adapters
func New(cfg *config.Config, deps Dependencies) *Services {
	if deps.Publisher == nil {
		deps.Publisher = realtime.Discard{}
	}
	if deps.Generator == nil {
		deps.Generator = ai.Disabled{}
	}
	if deps.Issuer == nil {
		deps.Issuer = auth.NewIssuer(cfg.Auth.JWTSecret)
	}
	if deps.Blobs == nil {
		deps.Blobs = blob.NewInline()
	}

	st := deps.Storage
	reconciler := invitee.Reconciler{AllowSubstring: cfg.RSVP.FuzzyMatch}

	return &Services{
		Auth:      NewAuthService(deps.Issuer, cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash, cfg.Auth.AdminTokenTTL),
		Invitees:  NewInviteeService(st.Invitees(), st.RSVPs(), deps.Publisher, deps.Metrics),
		RSVPs:     NewRSVPService(st.Invitees(), st.RSVPs(), reconciler, deps.Publisher, deps.Metrics),
		Gifts:     NewGiftService(st.Gifts(), deps.Blobs, deps.Publisher, cfg.Upload.MaxFileSize),
		Settings:  NewSettingsService(st.Settings(), st.Gifts(), deps.Blobs, deps.Issuer, cfg.Auth.ManualTokenTTL, cfg.Upload.MaxFileSize, deps.Publisher),
		Messages:  NewMessageService(deps.Generator, st.RSVPs(), st.Gifts(), st.Settings(), deps.Metrics),
		Reports:   NewReportService(st.Invitees(), st.RSVPs(), st.Gifts()),
		Dashboard: NewDashboardService(st.Invitees(), st.RSVPs(), st.Gifts()),
	}
}
