package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/importer"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/validation"
)

// RSVPService runs the guest intake flow and the admin ledger operations
type RSVPService struct {
	invitees   invitee.Repository
	rsvps      rsvp.Repository
	reconciler invitee.Reconciler
	publisher  realtime.Publisher
	metrics    *metrics.Metrics
	now        func() time.Time
	log        *log.Logger
}

// NewRSVPService creates a new RSVP service
func NewRSVPService(invitees invitee.Repository, rsvps rsvp.Repository, reconciler invitee.Reconciler, publisher realtime.Publisher, m *metrics.Metrics) *RSVPService {
	return &RSVPService{
		invitees:   invitees,
		rsvps:      rsvps,
		reconciler: reconciler,
		publisher:  publisher,
		metrics:    m,
		now:        time.Now,
		log:        logger.Service("rsvp"),
	}
}

// LookupResult tells the form how to shape itself for a name
type LookupResult struct {
	Name             string `json:"name"`
	Matched          bool   `json:"matched"`
	Capped           bool   `json:"capped"`
	MaxCompanions    int    `json:"max_companions"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
	State            string `json:"state"`
}

// Lookup reconciles a typed name and reports the companion cap and
// whether an answer already exists for it
func (s *RSVPService) Lookup(ctx context.Context, name string) (*LookupResult, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		errs := validation.FieldErrors{}
		errs.Add("name", errors.New("name is required"))
		return nil, errs
	}

	in := rsvp.NewIntake()
	_ = in.SetName(name)

	err = in.Verify(ctx, s.reconciler, dir, s.rsvps)
	if err != nil && !errors.Is(err, rsvp.ErrAlreadyConfirmed) {
		return nil, err
	}

	m := in.Match()
	res := &LookupResult{
		Name:             in.Name,
		Matched:          m.Matched(),
		Capped:           m.Capped,
		MaxCompanions:    m.MaxCompanions,
		AlreadyConfirmed: errors.Is(err, rsvp.ErrAlreadyConfirmed),
		State:            in.State().String(),
	}
	if m.Matched() {
		res.Name = m.Invitee.FullName
	}
	return res, nil
}

// CompanionInput is one companion sub-form
type CompanionInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SubmitRequest is the guest-facing RSVP form
type SubmitRequest struct {
	Name       string           `json:"name" binding:"required"`
	Phone      string           `json:"phone"`
	Message    string           `json:"message"`
	Attending  *bool            `json:"attending"`
	Companions []CompanionInput `json:"companions"`
}

// Submit verifies the name, applies the form and writes the RSVP.
// Declining drops any companions sent along.
func (s *RSVPService) Submit(ctx context.Context, req SubmitRequest) (*rsvp.RSVP, error) {
	dir, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	in := rsvp.NewIntake()
	_ = in.SetName(req.Name)
	_ = in.SetPhone(req.Phone)
	_ = in.SetMessage(req.Message)

	if err := in.Verify(ctx, s.reconciler, dir, s.rsvps); err != nil {
		s.metrics.ObserveRSVP(outcome(err))
		return nil, err
	}

	if req.Attending != nil {
		_ = in.SetAttending(*req.Attending)
		if *req.Attending {
			if err := fillCompanions(in, req.Companions); err != nil {
				s.metrics.ObserveRSVP("rejected")
				return nil, err
			}
		}
	}

	record, err := in.Submit(ctx, s.rsvps, s.now().UTC())
	if err != nil {
		s.log.Warn("RSVP submission failed", "name", req.Name, "error", err)
		s.metrics.ObserveRSVP(outcome(err))
		return nil, err
	}

	s.metrics.ObserveRSVP("accepted")
	s.publish(realtime.ActionCreated, record.ID.String(), 1)
	s.log.Info("RSVP submitted", "id", record.ID, "attending", record.IsAttending, "guests", record.NumberOfGuests)
	return record, nil
}

func fillCompanions(in *rsvp.Intake, companions []CompanionInput) error {
	if err := in.SetCompanionCount(len(companions)); err != nil {
		return err
	}
	for i, c := range companions {
		kind, ok := rsvp.ParseCompanionType(c.Type)
		if !ok {
			kind = rsvp.CompanionAdult
		}
		if err := in.SetCompanion(i, c.Name, kind); err != nil {
			return err
		}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, rsvp.ErrAlreadyConfirmed):
		return "duplicate"
	case errors.Is(err, invitee.ErrNameNotFound), errors.Is(err, invitee.ErrAmbiguousName):
		return "unmatched"
	default:
		return "rejected"
	}
}

// AdminRSVPRequest is an RSVP entered or edited from the admin area
type AdminRSVPRequest struct {
	FullName       string           `json:"full_name" binding:"required"`
	InviteeID      *string          `json:"invitee_id"`
	IsAttending    bool             `json:"is_attending"`
	NumberOfGuests int              `json:"number_of_guests"`
	GuestNames     []CompanionInput `json:"guest_names"`
	PhoneNumber    string           `json:"phone_number"`
	Message        string           `json:"message"`
}

func (s *RSVPService) fromRequest(ctx context.Context, req AdminRSVPRequest, rec *rsvp.RSVP) error {
	rec.FullName = req.FullName
	rec.IsAttending = req.IsAttending
	rec.NumberOfGuests = req.NumberOfGuests
	rec.PhoneNumber = req.PhoneNumber
	rec.Message = req.Message
	rec.GuestNames = make([]rsvp.Companion, 0, len(req.GuestNames))
	for _, c := range req.GuestNames {
		kind, ok := rsvp.ParseCompanionType(c.Type)
		if !ok {
			kind = rsvp.CompanionAdult
		}
		rec.GuestNames = append(rec.GuestNames, rsvp.Companion{Name: c.Name, Type: kind})
	}
	if len(req.GuestNames) > 0 && req.NumberOfGuests == 0 {
		rec.NumberOfGuests = len(req.GuestNames)
	}

	rec.InviteeID = nil
	if req.InviteeID != nil && *req.InviteeID != "" {
		id, err := parseID(*req.InviteeID, "invitee_id")
		if err != nil {
			return err
		}
		if _, err := s.invitees.GetByID(ctx, id); err != nil {
			return err
		}
		rec.InviteeID = &id
	}

	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.InviteeID == nil {
		return s.link(ctx, []*rsvp.RSVP{rec})
	}
	return nil
}

// Create adds an RSVP from the admin area
func (s *RSVPService) Create(ctx context.Context, req AdminRSVPRequest) (*rsvp.RSVP, error) {
	rec := &rsvp.RSVP{ID: uuid.New(), Source: rsvp.SourceAdmin}
	if err := s.fromRequest(ctx, req, rec); err != nil {
		return nil, err
	}

	if err := s.rsvps.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionCreated, rec.ID.String(), 1)
	return rec, nil
}

// Update replaces an RSVP; the source of the record is kept
func (s *RSVPService) Update(ctx context.Context, id string, req AdminRSVPRequest) (*rsvp.RSVP, error) {
	rid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	rec, err := s.rsvps.GetByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if err := s.fromRequest(ctx, req, rec); err != nil {
		return nil, err
	}

	if err := s.rsvps.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.publish(realtime.ActionUpdated, rec.ID.String(), 1)
	return rec, nil
}

// Delete removes an RSVP
func (s *RSVPService) Delete(ctx context.Context, id string) error {
	rid, err := parseID(id, "id")
	if err != nil {
		return err
	}
	if err := s.rsvps.Delete(ctx, rid); err != nil {
		return err
	}

	s.publish(realtime.ActionDeleted, rid.String(), 1)
	return nil
}

// Get returns one RSVP
func (s *RSVPService) Get(ctx context.Context, id string) (*rsvp.RSVP, error) {
	rid, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}
	return s.rsvps.GetByID(ctx, rid)
}

// List returns the ledger, newest first
func (s *RSVPService) List(ctx context.Context) ([]*rsvp.RSVP, error) {
	return s.rsvps.List(ctx)
}

// ImportSummary reports the outcome of a bulk import
type ImportSummary struct {
	Imported int                   `json:"imported"`
	Skipped  []importer.SkippedRow `json:"skipped"`
	Mapping  importer.Mapping      `json:"mapping"`
}

// Import reads an RSVP sheet and inserts every named row as a new
// record. Rows are linked to invitees by exact name when possible.
func (s *RSVPService) Import(ctx context.Context, filename string, r io.Reader, override map[importer.Field]string) (*ImportSummary, error) {
	res, err := importer.ReadRSVPs(filename, r, importer.Options{Override: override})
	if err != nil {
		return nil, err
	}

	if err := s.link(ctx, res.Records); err != nil {
		return nil, err
	}
	if err := s.rsvps.CreateBatch(ctx, res.Records); err != nil {
		return nil, fmt.Errorf("failed to store imported RSVPs: %w", err)
	}

	s.metrics.ObserveImport(common.CollectionRSVPs, res.Imported(), len(res.Skipped))
	if res.Imported() > 0 {
		s.publish(realtime.ActionImported, "", res.Imported())
	}

	return &ImportSummary{Imported: res.Imported(), Skipped: res.Skipped, Mapping: res.Mapping}, nil
}

// link sets InviteeID on records whose name matches an invitee exactly
func (s *RSVPService) link(ctx context.Context, records []*rsvp.RSVP) error {
	dir, err := s.directory(ctx)
	if err != nil {
		return err
	}
	if dir.Empty() {
		return nil
	}

	exact := invitee.Reconciler{}
	for _, rec := range records {
		if rec.InviteeID != nil {
			continue
		}
		m, err := exact.Reconcile(rec.FullName, dir)
		if err != nil || !m.Matched() {
			continue
		}
		id := m.Invitee.ID
		rec.InviteeID = &id
	}
	return nil
}

func (s *RSVPService) directory(ctx context.Context) (invitee.Directory, error) {
	list, err := s.invitees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest list: %w", err)
	}
	return invitee.Directory(list), nil
}

func (s *RSVPService) publish(action realtime.Action, id string, count int) {
	s.publisher.Publish(realtime.Change{
		Collection: common.CollectionRSVPs,
		Action:     action,
		RecordID:   id,
		Count:      count,
	})
}
