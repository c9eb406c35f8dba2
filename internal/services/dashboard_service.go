package services

import (
	"context"
	"fmt"

	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
)

const recentLimit = 5

// Dashboard is the admin overview
type Dashboard struct {
	Invitees          int          `json:"invitees"`
	RSVPs             int          `json:"rsvps"`
	Confirmed         int          `json:"confirmed"`
	Declined          int          `json:"declined"`
	Pending           int          `json:"pending"`
	ExpectedHeadcount int          `json:"expected_headcount"`
	Unmatched         int          `json:"unmatched"`
	Gifts             int          `json:"gifts"`
	RegistryTotal     float64      `json:"registry_total"`
	RecentRSVPs       []*rsvp.RSVP `json:"recent_rsvps"`
}

// DashboardService aggregates counts for the admin home and the live feed
type DashboardService struct {
	invitees invitee.Repository
	rsvps    rsvp.Repository
	gifts    gift.Repository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invitees invitee.Repository, rsvps rsvp.Repository, gifts gift.Repository) *DashboardService {
	return &DashboardService{invitees: invitees, rsvps: rsvps, gifts: gifts}
}

// Snapshot computes the overview. Without a guest list the confirmation
// counts come straight from the ledger.
func (s *DashboardService) Snapshot(ctx context.Context) (*Dashboard, error) {
	invitees, err := s.invitees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest list: %w", err)
	}
	list, err := s.rsvps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load RSVPs: %w", err)
	}
	gifts, err := s.gifts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gifts: %w", err)
	}

	d := &Dashboard{
		Invitees:    len(invitees),
		RSVPs:       len(list),
		Gifts:       len(gifts),
		RecentRSVPs: list[:min(recentLimit, len(list))],
	}

	if len(invitees) > 0 {
		report := rsvp.CrossReference(invitees, list)
		d.Confirmed = report.Confirmed
		d.Declined = report.Declined
		d.Pending = report.Pending
		d.ExpectedHeadcount = report.ExpectedHeadcount
		d.Unmatched = len(report.Unmatched)
	} else {
		for _, r := range list {
			if r.IsAttending {
				d.Confirmed++
				d.ExpectedHeadcount += r.Headcount()
			} else {
				d.Declined++
			}
		}
	}

	for _, g := range gifts {
		d.RegistryTotal += g.Price
	}
	return d, nil
}
