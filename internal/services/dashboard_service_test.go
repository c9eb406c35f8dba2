package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/validation"
)

func seedLedger(t *testing.T, f *fixture, records ...*rsvp.RSVP) {
	t.Helper()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, r := range records {
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		r.Normalize()
		require.NoError(t, f.store.RSVPs().Create(context.Background(), r))
	}
}

func TestDashboardWithoutGuestList(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f,
		&rsvp.RSVP{FullName: "Ana", IsAttending: true, NumberOfGuests: 2},
		&rsvp.RSVP{FullName: "Bruno", IsAttending: false},
	)

	d, err := f.svc.Dashboard.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.RSVPs)
	assert.Equal(t, 1, d.Confirmed)
	assert.Equal(t, 1, d.Declined)
	assert.Equal(t, 3, d.ExpectedHeadcount)
	assert.Zero(t, d.Pending)
	assert.Equal(t, "Bruno", d.RecentRSVPs[0].FullName)
}

func TestDashboardWithGuestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.invitee(t, "Ana Souza", 3)
	f.invitee(t, "Bruno Lima", 1)
	f.invitee(t, "Carla Dias", 2)

	seedLedger(t, f,
		&rsvp.RSVP{FullName: "ana souza", IsAttending: true, NumberOfGuests: 1},
		&rsvp.RSVP{FullName: "Bruno Lima", IsAttending: false},
		&rsvp.RSVP{FullName: "Penetra", IsAttending: true},
	)
	for i := 0; i < 5; i++ {
		seedLedger(t, f, &rsvp.RSVP{FullName: "Extra", IsAttending: false})
	}

	_, err := f.svc.Gifts.Create(ctx, GiftRequest{Name: "Caneca", Price: 30, ExternalLink: "https://loja.example.com/c"})
	require.NoError(t, err)
	_, err = f.svc.Gifts.Create(ctx, GiftRequest{Name: "Panela", Price: 120.5, ExternalLink: "https://loja.example.com/p"})
	require.NoError(t, err)

	d, err := f.svc.Dashboard.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Invitees)
	assert.Equal(t, 1, d.Confirmed)
	assert.Equal(t, 1, d.Declined)
	assert.Equal(t, 1, d.Pending)
	assert.Equal(t, 2, d.ExpectedHeadcount)
	assert.Equal(t, 6, d.Unmatched)
	assert.Equal(t, 2, d.Gifts)
	assert.InDelta(t, 150.5, d.RegistryTotal, 0.001)
	assert.Len(t, d.RecentRSVPs, 5)

	status, err := f.svc.Invitees.Status(ctx)
	require.NoError(t, err)
	assert.Len(t, status.Rows, 3)
}

func TestRenderReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedLedger(t, f, &rsvp.RSVP{FullName: "Ana Souza", IsAttending: true, PhoneNumber: "11999990000"})

	var buf bytes.Buffer
	out, err := f.svc.Reports.Render(ctx, &buf, ReportOptions{Kind: "rsvps"})
	require.NoError(t, err)
	assert.Equal(t, "rsvps.csv", out.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)
	assert.Contains(t, buf.String(), "Ana Souza")

	buf.Reset()
	out, err = f.svc.Reports.Render(ctx, &buf, ReportOptions{Kind: "gifts", Format: "PDF"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))

	_, err = f.svc.Reports.Render(ctx, &buf, ReportOptions{Kind: "votes", Format: "xml"})
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "kind")
	assert.Contains(t, fe, "format")
}
