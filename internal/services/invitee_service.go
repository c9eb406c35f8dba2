package services

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/importer"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/realtime"
)

// InviteeService manages the pre-registered guest list
type InviteeService struct {
	invitees  invitee.Repository
	rsvps     rsvp.Repository
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	log       *log.Logger
}

// NewInviteeService creates a new invitee service
func NewInviteeService(invitees invitee.Repository, rsvps rsvp.Repository, publisher realtime.Publisher, m *metrics.Metrics) *InviteeService {
	return &InviteeService{
		invitees:  invitees,
		rsvps:     rsvps,
		publisher: publisher,
		metrics:   m,
		log:       logger.Service("invitee"),
	}
}

// InviteeRequest is the admin form for one invitee
type InviteeRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Category    string `json:"category"`
	GuestLimit  int    `json:"guest_limit"`
}

// Create adds an invitee
func (s *InviteeService) Create(ctx context.Context, req InviteeRequest) (*invitee.Invitee, error) {
	inv := invitee.NewInvitee(req.FullName, req.PhoneNumber, req.Category, req.GuestLimit)
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.invitees.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionCreated, inv.ID.String(), 1)
	return inv, nil
}

// Get returns one invitee
func (s *InviteeService) Get(ctx context.Context, id string) (*invitee.Invitee, error) {
	iid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.invitees.GetByID(ctx, iid)
}

// List returns the guest list ordered by name
func (s *InviteeService) List(ctx context.Context) ([]*invitee.Invitee, error) {
	return s.invitees.List(ctx)
}

// Update replaces the editable fields of an invitee
func (s *InviteeService) Update(ctx context.Context, id string, req InviteeRequest) (*invitee.Invitee, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.FullName = req.FullName
	inv.PhoneNumber = req.PhoneNumber
	inv.Category = req.Category
	inv.GuestLimit = req.GuestLimit
	inv.ApplyDefaults()
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.invitees.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdated, inv.ID.String(), 1)
	return inv, nil
}

// Delete removes an invitee. RSVPs pointing at it keep their name and
// fall back to name matching.
func (s *InviteeService) Delete(ctx context.Context, id string) error {
	iid, err := parseID(id, "id")
	if err != nil {
		return err
	}
	if err := s.invitees.Delete(ctx, iid); err != nil {
		return err
	}

	s.publish(realtime.ActionDeleted, iid.String(), 1)
	return nil
}

// Import reads a guest list sheet and appends its rows
func (s *InviteeService) Import(ctx context.Context, filename string, r io.Reader, override map[importer.Field]string) (*ImportSummary, error) {
	res, err := importer.ReadInvitees(filename, r, importer.Options{Override: override})
	if err != nil {
		return nil, err
	}

	if err := s.invitees.CreateBatch(ctx, res.Records); err != nil {
		return nil, fmt.Errorf("failed to store imported invitees: %w", err)
	}

	s.metrics.ObserveImport(common.CollectionInvitees, res.Imported(), len(res.Skipped))
	if res.Imported() > 0 {
		s.publish(realtime.ActionImported, "", res.Imported())
	}

	s.log.Info("Guest list imported", "file", filename, "imported", res.Imported(), "skipped", len(res.Skipped))
	return &ImportSummary{Imported: res.Imported(), Skipped: res.Skipped, Mapping: res.Mapping}, nil
}

// Status joins the guest list with the RSVP ledger
func (s *InviteeService) Status(ctx context.Context) (*rsvp.StatusReport, error) {
	invitees, err := s.invitees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest list: %w", err)
	}
	rsvps, err := s.rsvps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load RSVPs: %w", err)
	}

	report := rsvp.CrossReference(invitees, rsvps)
	return &report, nil
}

func (s *InviteeService) publish(action realtime.Action, id string, count int) {
	s.publisher.Publish(realtime.Change{
		Collection: common.CollectionInvitees,
		Action:     action,
		RecordID:   id,
		Count:      count,
	})
}
