package rsvp

import (
	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/domain/invitee"
)

// Status is the per-invitee answer state shown in the admin view
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusPending   Status = "pending"
)

// StatusRow pairs an invitee with its RSVP, if any
type StatusRow struct {
	Invitee *invitee.Invitee `json:"invitee"`
	RSVP    *RSVP            `json:"rsvp,omitempty"`
	Status  Status           `json:"status"`
}

// StatusReport is the read-side join of the directory and the ledger
type StatusReport struct {
	Rows              []StatusRow `json:"rows"`
	Confirmed         int         `json:"confirmed"`
	Declined          int         `json:"declined"`
	Pending           int         `json:"pending"`
	ExpectedHeadcount int         `json:"expected_headcount"`
	// Unmatched lists RSVPs that do not belong to any invitee
	Unmatched []*RSVP `json:"unmatched"`
}

// Classify maps an optional RSVP to a status
func Classify(r *RSVP) Status {
	switch {
	case r == nil:
		return StatusPending
	case r.IsAttending:
		return StatusConfirmed
	default:
		return StatusDeclined
	}
}

// CrossReference joins invitees and RSVPs. The invitee id carried by the
// RSVP wins; the normalized name is the fallback for records written
// before the id existed or entered by hand. When several RSVPs map to one
// invitee the most recent one counts.
func CrossReference(invitees []*invitee.Invitee, rsvps []*RSVP) StatusReport {
	byID := make(map[uuid.UUID]*RSVP)
	byName := make(map[string]*RSVP)

	for _, r := range rsvps {
		if r.InviteeID != nil {
			if cur, ok := byID[*r.InviteeID]; !ok || r.CreatedAt.After(cur.CreatedAt) {
				byID[*r.InviteeID] = r
			}
			continue
		}
		key := invitee.NormalizeName(r.FullName)
		if cur, ok := byName[key]; !ok || r.CreatedAt.After(cur.CreatedAt) {
			byName[key] = r
		}
	}

	knownIDs := make(map[uuid.UUID]bool, len(invitees))
	knownNames := make(map[string]bool, len(invitees))
	for _, inv := range invitees {
		knownIDs[inv.ID] = true
		knownNames[invitee.NormalizeName(inv.FullName)] = true
	}

	report := StatusReport{
		Rows:      make([]StatusRow, 0, len(invitees)),
		Unmatched: []*RSVP{},
	}

	for _, inv := range invitees {
		r, ok := byID[inv.ID]
		if !ok {
			r = byName[invitee.NormalizeName(inv.FullName)]
		}
		status := Classify(r)
		switch status {
		case StatusConfirmed:
			report.Confirmed++
			report.ExpectedHeadcount += r.Headcount()
		case StatusDeclined:
			report.Declined++
		default:
			report.Pending++
		}

		report.Rows = append(report.Rows, StatusRow{Invitee: inv, RSVP: r, Status: status})
	}

	for _, r := range rsvps {
		if r.InviteeID != nil && knownIDs[*r.InviteeID] {
			continue
		}
		if r.InviteeID == nil && knownNames[invitee.NormalizeName(r.FullName)] {
			continue
		}
		report.Unmatched = append(report.Unmatched, r)
	}

	return report
}
