package rsvp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/convite-api/internal/validation"
)

func TestResizeCompanions(t *testing.T) {
	base := []Companion{
		{Name: "Lucas", Type: CompanionAdult},
		{Name: "Bia", Type: CompanionChild},
		{Name: "Rafa", Type: CompanionAdult},
	}

	t.Run("grow keeps entries and appends blank adults", func(t *testing.T) {
		got := ResizeCompanions(base[:2], 4)
		assert.Len(t, got, 4)
		assert.Equal(t, base[:2], got[:2])
		assert.Equal(t, Companion{Type: CompanionAdult}, got[2])
		assert.Equal(t, Companion{Type: CompanionAdult}, got[3])
	})

	t.Run("shrink truncates from the end", func(t *testing.T) {
		got := ResizeCompanions(base, 1)
		assert.Equal(t, base[:1], got)
	})

	t.Run("same size is a no-op", func(t *testing.T) {
		got := ResizeCompanions(base, 3)
		assert.Equal(t, base, got)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		in := []Companion{{Name: "Lucas", Type: CompanionAdult}}
		out := ResizeCompanions(in, 2)
		out[0].Name = "changed"
		assert.Equal(t, "Lucas", in[0].Name)
	})

	t.Run("negative and nil give an empty list", func(t *testing.T) {
		assert.Equal(t, []Companion{}, ResizeCompanions(base, -1))
		assert.Equal(t, []Companion{}, ResizeCompanions(nil, 0))
	})
}

func TestNormalizeDeclined(t *testing.T) {
	r := &RSVP{
		FullName:       " Ana Silva ",
		IsAttending:    false,
		NumberOfGuests: 2,
		GuestNames:     []Companion{{Name: "x"}, {Name: "y"}},
	}
	r.Normalize()

	assert.Equal(t, "Ana Silva", r.FullName)
	assert.Equal(t, "ana silva", r.NormalizedName)
	assert.Equal(t, 0, r.NumberOfGuests)
	assert.Empty(t, r.GuestNames)
	assert.Equal(t, SourceAdmin, r.Source)
	assert.NoError(t, r.Validate())
}

func TestNormalizeAttendingSizesList(t *testing.T) {
	r := &RSVP{
		FullName:       "Ana Silva",
		IsAttending:    true,
		NumberOfGuests: 2,
		GuestNames:     []Companion{{Name: " Lucas ", Type: "robot"}},
	}
	r.Normalize()

	assert.Len(t, r.GuestNames, 2)
	assert.Equal(t, "Lucas", r.GuestNames[0].Name)
	assert.Equal(t, CompanionAdult, r.GuestNames[0].Type)
	assert.Equal(t, 3, r.Headcount())
}

func TestNormalizeKeepsNamedCompanions(t *testing.T) {
	r := &RSVP{
		FullName:       "Ana Silva",
		IsAttending:    true,
		NumberOfGuests: 1,
		GuestNames:     []Companion{{Name: "Lucas"}, {Name: "Bia"}, {Name: "Teo"}},
	}
	r.Normalize()

	assert.Len(t, r.GuestNames, 3)
	var fields validation.FieldErrors
	require.ErrorAs(t, r.Validate(), &fields)
	assert.Contains(t, fields, "guest_names")

	blanks := &RSVP{
		FullName:       "Ana Silva",
		IsAttending:    true,
		NumberOfGuests: 1,
		GuestNames:     []Companion{{Name: "Lucas"}, {Name: " "}},
	}
	blanks.Normalize()
	assert.Equal(t, []Companion{{Name: "Lucas", Type: CompanionAdult}}, blanks.GuestNames)
	assert.NoError(t, blanks.Validate())
}

func TestNormalizeRejectsHugeCount(t *testing.T) {
	r := &RSVP{FullName: "Ana Silva", IsAttending: true, NumberOfGuests: 1 << 50}
	r.Normalize()

	assert.Empty(t, r.GuestNames)
	var fields validation.FieldErrors
	require.ErrorAs(t, r.Validate(), &fields)
	assert.Contains(t, fields, "number_of_guests")

	ok := &RSVP{FullName: "Ana Silva", IsAttending: true, NumberOfGuests: CompanionLimit}
	ok.Normalize()
	assert.Len(t, ok.GuestNames, CompanionLimit)
}

func TestParseCompanionType(t *testing.T) {
	for _, s := range []string{"", "adult", "Adulto"} {
		kind, ok := ParseCompanionType(s)
		assert.True(t, ok)
		assert.Equal(t, CompanionAdult, kind)
	}
	for _, s := range []string{"child", "criança", "CRIANCA"} {
		kind, ok := ParseCompanionType(s)
		assert.True(t, ok)
		assert.Equal(t, CompanionChild, kind)
	}
	_, ok := ParseCompanionType("pet")
	assert.False(t, ok)
}
