package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/domain/common"
	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/validation"
)

func TestLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.invitee(t, "Ana Souza", 3)

	_, err := f.svc.RSVPs.Lookup(ctx, "   ")
	assert.ErrorIs(t, err, validation.ErrValidation)

	res, err := f.svc.RSVPs.Lookup(ctx, "ana   SOUZA")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Capped)
	assert.Equal(t, 2, res.MaxCompanions)
	assert.Equal(t, "Ana Souza", res.Name)
	assert.Equal(t, "name_verified", res.State)
	assert.False(t, res.AlreadyConfirmed)

	_, err = f.svc.RSVPs.Lookup(ctx, "Carlos")
	assert.ErrorIs(t, err, invitee.ErrNameNotFound)
}

func TestLookupReportsExistingAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.invitee(t, "Ana Souza", 1)

	_, err := f.svc.RSVPs.Submit(ctx, SubmitRequest{Name: "Ana Souza", Phone: "11999990000", Attending: ptr(true)})
	require.NoError(t, err)

	res, err := f.svc.RSVPs.Lookup(ctx, "Ana Souza")
	require.NoError(t, err)
	assert.True(t, res.AlreadyConfirmed)
	assert.Equal(t, "already_confirmed", res.State)
}

func TestSubmitMatchedGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.invitee(t, "Ana Souza", 3)

	rec, err := f.svc.RSVPs.Submit(ctx, SubmitRequest{
		Name:      " ana souza ",
		Phone:     "11999990000",
		Message:   "Parabéns!",
		Attending: ptr(true),
		Companions: []CompanionInput{
			{Name: "Pedro Souza", Type: "criança"},
			{Name: "Marta Souza"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", rec.FullName)
	require.NotNil(t, rec.InviteeID)
	assert.Equal(t, ana.ID, *rec.InviteeID)
	assert.Equal(t, rsvp.SourceForm, rec.Source)
	assert.Equal(t, 2, rec.NumberOfGuests)
	assert.Equal(t, rsvp.CompanionChild, rec.GuestNames[0].Type)
	assert.Equal(t, rsvp.CompanionAdult, rec.GuestNames[1].Type)

	stored, err := f.svc.RSVPs.Get(ctx, rec.ID.String())
	require.NoError(t, err)
	assert.Equal(t, rec.GuestNames, stored.GuestNames)

	last := f.events.last()
	assert.Equal(t, common.CollectionRSVPs, last.Collection)
	assert.Equal(t, realtime.ActionCreated, last.Action)
	assert.Equal(t, rec.ID.String(), last.RecordID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RSVPSubmissions.WithLabelValues("accepted")))

	_, err = f.svc.RSVPs.Submit(ctx, SubmitRequest{Name: "Ana Souza", Phone: "11999990000", Attending: ptr(false)})
	assert.ErrorIs(t, err, rsvp.ErrAlreadyConfirmed)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RSVPSubmissions.WithLabelValues("duplicate")))
}

func TestSubmitRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.invitee(t, "Ana Souza", 2)

	tests := []struct {
		name    string
		req     SubmitRequest
		wantErr error
	}{
		{
			name:    "unknown guest",
			req:     SubmitRequest{Name: "Carlos Lima", Phone: "11999990000", Attending: ptr(true)},
			wantErr: invitee.ErrNameNotFound,
		},
		{
			name: "over the companion limit",
			req: SubmitRequest{Name: "Ana Souza", Phone: "11999990000", Attending: ptr(true),
				Companions: []CompanionInput{{Name: "Pedro"}, {Name: "Marta"}}},
			wantErr: rsvp.ErrTooManyCompanions,
		},
		{
			name:    "short phone",
			req:     SubmitRequest{Name: "Ana Souza", Phone: "1199", Attending: ptr(true)},
			wantErr: validation.ErrValidation,
		},
		{
			name:    "no attendance choice",
			req:     SubmitRequest{Name: "Ana Souza", Phone: "11999990000"},
			wantErr: validation.ErrValidation,
		},
		{
			name: "blank companion name",
			req: SubmitRequest{Name: "Ana Souza", Phone: "11999990000", Attending: ptr(true),
				Companions: []CompanionInput{{Name: " "}}},
			wantErr: validation.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RSVPs.Submit(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	n, err := f.store.RSVPs().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RSVPSubmissions.WithLabelValues("unmatched")))
}

func TestSubmitDecliningDropsCompanions(t *testing.T) {
	f := newFixture(t)
	f.invitee(t, "Ana Souza", 4)

	rec, err := f.svc.RSVPs.Submit(context.Background(), SubmitRequest{
		Name:       "Ana Souza",
		Phone:      "11999990000",
		Attending:  ptr(false),
		Companions: []CompanionInput{{Name: "Pedro"}},
	})
	require.NoError(t, err)
	assert.False(t, rec.IsAttending)
	assert.Zero(t, rec.NumberOfGuests)
	assert.Empty(t, rec.GuestNames)
}

func TestSubmitWithoutGuestList(t *testing.T) {
	f := newFixture(t)

	companions := make([]CompanionInput, 6)
	for i := range companions {
		companions[i] = CompanionInput{Name: "Convidado " + strings.Repeat("x", i+1)}
	}

	rec, err := f.svc.RSVPs.Submit(context.Background(), SubmitRequest{
		Name:       "Qualquer Pessoa",
		Phone:      "11999990000",
		Attending:  ptr(true),
		Companions: companions,
	})
	require.NoError(t, err)
	assert.Nil(t, rec.InviteeID)
	assert.Equal(t, 6, rec.NumberOfGuests)
}

func TestSubmitCompanionErrorsCountAsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RSVPs.Submit(context.Background(), SubmitRequest{
		Name:       "Qualquer Pessoa",
		Phone:      "11999990000",
		Attending:  ptr(true),
		Companions: make([]CompanionInput, rsvp.CompanionLimit+1),
	})
	assert.ErrorIs(t, err, rsvp.ErrTooManyCompanions)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RSVPSubmissions.WithLabelValues("rejected")))

	list, err := f.store.RSVPs().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFillCompanions(t *testing.T) {
	in := rsvp.NewIntake()
	require.NoError(t, in.SetAttending(true))

	require.NoError(t, fillCompanions(in, []CompanionInput{{Name: " Lia ", Type: "criança"}, {Name: "Teo", Type: "pet"}}))
	assert.Equal(t, []rsvp.Companion{
		{Name: "Lia", Type: rsvp.CompanionChild},
		{Name: "Teo", Type: rsvp.CompanionAdult},
	}, in.Companions)

	assert.ErrorIs(t, fillCompanions(in, make([]CompanionInput, rsvp.CompanionLimit+1)), rsvp.ErrTooManyCompanions)
}

func TestSubmitWriteFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk full")
	f.store.RSVPStore().FailWrites(boom)

	_, err := f.svc.RSVPs.Submit(context.Background(), SubmitRequest{
		Name: "Ana Souza", Phone: "11999990000", Attending: ptr(true),
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RSVPSubmissions.WithLabelValues("rejected")))
}

func TestAdminRSVPLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.invitee(t, "Ana Souza", 3)

	_, err := f.svc.RSVPs.Create(ctx, AdminRSVPRequest{FullName: "Ana Souza", InviteeID: ptr("not-a-uuid")})
	assert.ErrorIs(t, err, validation.ErrValidation)

	rec, err := f.svc.RSVPs.Create(ctx, AdminRSVPRequest{
		FullName:    "ana souza",
		IsAttending: true,
		GuestNames:  []CompanionInput{{Name: "Pedro", Type: "child"}},
	})
	require.NoError(t, err)
	assert.Equal(t, rsvp.SourceAdmin, rec.Source)
	assert.Equal(t, 1, rec.NumberOfGuests)
	require.NotNil(t, rec.InviteeID, "linked by exact name")
	assert.Equal(t, ana.ID, *rec.InviteeID)

	updated, err := f.svc.RSVPs.Update(ctx, rec.ID.String(), AdminRSVPRequest{
		FullName:       "Ana Souza",
		IsAttending:    false,
		NumberOfGuests: 3,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsAttending)
	assert.Zero(t, updated.NumberOfGuests)
	assert.Equal(t, rsvp.SourceAdmin, updated.Source)
	assert.Equal(t, realtime.ActionUpdated, f.events.last().Action)

	list, err := f.svc.RSVPs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.RSVPs.Delete(ctx, rec.ID.String()))
	_, err = f.svc.RSVPs.Get(ctx, rec.ID.String())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, f.svc.RSVPs.Delete(ctx, "bad"), validation.ErrValidation)
}

func TestImportRSVPs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.invitee(t, "Ana Silva", 3)

	data := "Nome,Confirmado,Acompanhantes\n" +
		"Ana Silva,sim,\"Lucas, Bia\"\n" +
		",sim,1\n" +
		"Pedro Alves,não,\n"

	summary, err := f.svc.RSVPs.Import(ctx, "respostas.csv", strings.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, 3, summary.Skipped[0].Line)

	list, err := f.svc.RSVPs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, rec := range list {
		assert.Equal(t, rsvp.SourceImport, rec.Source)
		if rec.FullName == "Ana Silva" {
			require.NotNil(t, rec.InviteeID)
			assert.Equal(t, ana.ID, *rec.InviteeID)
			assert.Equal(t, 2, rec.NumberOfGuests)
		} else {
			assert.Nil(t, rec.InviteeID)
		}
	}

	last := f.events.last()
	assert.Equal(t, realtime.ActionImported, last.Action)
	assert.Equal(t, 2, last.Count)
}
