package rsvp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/validation"
)

type fakeLedger struct {
	records []*RSVP
	failErr error
}

func (l *fakeLedger) ExistsByName(_ context.Context, normalizedName string) (bool, error) {
	for _, r := range l.records {
		if r.NormalizedName == normalizedName {
			return true, nil
		}
	}
	return false, nil
}

func (l *fakeLedger) Create(_ context.Context, r *RSVP) error {
	if l.failErr != nil {
		return l.failErr
	}
	l.records = append(l.records, r)
	return nil
}

var now = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func verified(t *testing.T, dir invitee.Directory, ledger *fakeLedger, name string) *Intake {
	t.Helper()
	in := NewIntake()
	require.NoError(t, in.SetName(name))
	require.NoError(t, in.SetPhone("11999999999"))
	require.NoError(t, in.Verify(context.Background(), invitee.Reconciler{}, dir, ledger))
	require.Equal(t, StateNameVerified, in.State())
	return in
}

func TestIntakeMatchedGuestWithCompanions(t *testing.T) {
	dir := invitee.Directory{invitee.NewInvitee("Maria Eduarda Silva", "", "", 3)}
	ledger := &fakeLedger{}
	ctx := context.Background()

	in := verified(t, dir, ledger, "maria eduarda silva")
	require.NoError(t, in.SetAttending(true))
	require.NoError(t, in.SetCompanionCount(2))
	require.NoError(t, in.SetCompanion(0, "João Silva", CompanionAdult))
	require.NoError(t, in.SetCompanion(1, "Lia Silva", CompanionChild))

	rec, err := in.Submit(ctx, ledger, now)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, in.State())
	assert.True(t, rec.IsAttending)
	assert.Equal(t, 2, rec.NumberOfGuests)
	assert.Len(t, rec.GuestNames, 2)
	assert.Equal(t, "Maria Eduarda Silva", rec.FullName)
	require.NotNil(t, rec.InviteeID)
	assert.Equal(t, dir[0].ID, *rec.InviteeID)
	assert.Equal(t, SourceForm, rec.Source)
	assert.Len(t, ledger.records, 1)

	again := NewIntake()
	require.NoError(t, again.SetName("Maria Eduarda Silva"))
	err = again.Verify(ctx, invitee.Reconciler{}, dir, ledger)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, StateAlreadyConfirmed, again.State())

	_, err = again.Submit(ctx, ledger, now)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Len(t, ledger.records, 1)
}

func TestIntakeEmptyDirectoryIsUncapped(t *testing.T) {
	ledger := &fakeLedger{}

	in := verified(t, nil, ledger, "Convidado Qualquer")
	assert.False(t, in.Match().Capped)

	require.NoError(t, in.SetAttending(true))
	require.NoError(t, in.SetCompanionCount(6))
	for i := 0; i < 6; i++ {
		require.NoError(t, in.SetCompanion(i, "Acompanhante "+string(rune('A'+i)), CompanionAdult))
	}

	rec, err := in.Submit(context.Background(), ledger, now)
	require.NoError(t, err)
	assert.Equal(t, 6, rec.NumberOfGuests)
	assert.Nil(t, rec.InviteeID)
}

func TestIntakeUncappedStillBounded(t *testing.T) {
	in := verified(t, nil, &fakeLedger{}, "Convidado Qualquer")
	require.NoError(t, in.SetAttending(true))

	assert.ErrorIs(t, in.SetCompanionCount(CompanionLimit+1), ErrTooManyCompanions)
	assert.Empty(t, in.Companions)
	assert.NoError(t, in.SetCompanionCount(CompanionLimit))
}

func TestIntakeCapsCompanions(t *testing.T) {
	dir := invitee.Directory{invitee.NewInvitee("Ana Silva", "", "", 2)}
	in := verified(t, dir, &fakeLedger{}, "Ana Silva")

	require.NoError(t, in.SetAttending(true))
	err := in.SetCompanionCount(2)
	assert.ErrorIs(t, err, ErrTooManyCompanions)
	assert.NoError(t, in.SetCompanionCount(1))
	assert.Len(t, in.Companions, 1)
}

func TestIntakeDecliningClearsCompanions(t *testing.T) {
	ledger := &fakeLedger{}
	in := verified(t, nil, ledger, "Ana Silva")

	require.NoError(t, in.SetAttending(true))
	require.NoError(t, in.SetCompanionCount(2))
	require.NoError(t, in.SetCompanion(0, "Lucas", CompanionAdult))
	require.NoError(t, in.SetAttending(false))

	assert.ErrorIs(t, in.SetCompanionCount(1), ErrCompanionsNotAllowed)

	rec, err := in.Submit(context.Background(), ledger, now)
	require.NoError(t, err)
	assert.False(t, rec.IsAttending)
	assert.Equal(t, 0, rec.NumberOfGuests)
	assert.Empty(t, rec.GuestNames)
}

func TestIntakeUnknownNameBlocksSubmission(t *testing.T) {
	dir := invitee.Directory{invitee.NewInvitee("Ana Silva", "", "", 2)}
	ledger := &fakeLedger{}

	in := NewIntake()
	require.NoError(t, in.SetName("Carlos Souza"))
	err := in.Verify(context.Background(), invitee.Reconciler{}, dir, ledger)
	assert.ErrorIs(t, err, invitee.ErrNameNotFound)
	assert.Equal(t, StateEditing, in.State())

	_, err = in.Submit(context.Background(), ledger, now)
	assert.ErrorIs(t, err, ErrNotVerified)
	assert.Empty(t, ledger.records)
}

func TestIntakeRenameRequiresNewVerification(t *testing.T) {
	in := verified(t, nil, &fakeLedger{}, "Ana Silva")

	require.NoError(t, in.SetName("  ana   SILVA"))
	assert.Equal(t, StateNameVerified, in.State())

	require.NoError(t, in.SetName("Outra Pessoa"))
	assert.Equal(t, StateEditing, in.State())
}

func TestIntakeValidation(t *testing.T) {
	ledger := &fakeLedger{}
	in := NewIntake()
	require.NoError(t, in.SetName("Ana Silva"))
	require.NoError(t, in.Verify(context.Background(), invitee.Reconciler{}, nil, ledger))

	_, err := in.Submit(context.Background(), ledger, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrValidation)

	var fields validation.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "attending")
	assert.Equal(t, StateNameVerified, in.State())
}

func TestIntakeBlankCompanionName(t *testing.T) {
	ledger := &fakeLedger{}
	in := verified(t, nil, ledger, "Ana Silva")
	require.NoError(t, in.SetAttending(true))
	require.NoError(t, in.SetCompanionCount(1))

	_, err := in.Submit(context.Background(), ledger, now)
	var fields validation.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "companions[0].name")
}

func TestIntakeWriteFailureIsReturned(t *testing.T) {
	ledger := &fakeLedger{}
	in := verified(t, nil, ledger, "Ana Silva")
	require.NoError(t, in.SetAttending(false))

	boom := errors.New("disk full")
	ledger.failErr = boom
	_, err := in.Submit(context.Background(), ledger, now)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateNameVerified, in.State())

	ledger.failErr = nil
	rec, err := in.Submit(context.Background(), ledger, now)
	require.NoError(t, err)
	assert.Equal(t, now, rec.CreatedAt)

	assert.ErrorIs(t, in.SetPhone("11888888888"), ErrAlreadySubmitted)
	_, err = in.Submit(context.Background(), ledger, now)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}
