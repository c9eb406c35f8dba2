package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/export"
	"github.com/gravadigital/convite-api/internal/validation"
)

// ReportService renders the admin exports
type ReportService struct {
	invitees invitee.Repository
	rsvps    rsvp.Repository
	gifts    gift.Repository
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(invitees invitee.Repository, rsvps rsvp.Repository, gifts gift.Repository) *ReportService {
	return &ReportService{invitees: invitees, rsvps: rsvps, gifts: gifts, now: time.Now}
}

// ReportOptions selects a report and its encoding
type ReportOptions struct {
	Kind   string
	Format string
}

func (o ReportOptions) parse() (export.Kind, export.Format, error) {
	errs := validation.FieldErrors{}
	kind, err := export.ParseKind(o.Kind)
	errs.Add("kind", err)
	format, err := export.ParseFormat(o.Format)
	errs.Add("format", err)
	return kind, format, errs.OrNil()
}

// Build loads the data behind a report
func (s *ReportService) Build(ctx context.Context, kind export.Kind) (*export.Report, error) {
	switch kind {
	case export.KindRSVPs:
		list, err := s.rsvps.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load RSVPs: %w", err)
		}
		return export.RSVPReport(list), nil
	case export.KindInvitees:
		invitees, err := s.invitees.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load guest list: %w", err)
		}
		list, err := s.rsvps.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load RSVPs: %w", err)
		}
		return export.InviteeReport(rsvp.CrossReference(invitees, list)), nil
	case export.KindGifts:
		list, err := s.gifts.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load gifts: %w", err)
		}
		return export.GiftReport(list), nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}

// RenderedReport describes what Render wrote
type RenderedReport struct {
	Filename    string
	ContentType string
}

// Render writes the selected report to w
func (s *ReportService) Render(ctx context.Context, w io.Writer, opts ReportOptions) (*RenderedReport, error) {
	kind, format, err := opts.parse()
	if err != nil {
		return nil, err
	}
	report, err := s.Build(ctx, kind)
	if err != nil {
		return nil, err
	}
	if err := export.Write(w, report, format, s.now()); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return &RenderedReport{Filename: report.Filename(kind, format), ContentType: format.ContentType()}, nil
}
