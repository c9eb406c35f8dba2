package invitee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directory() Directory {
	return Directory{
		NewInvitee("Maria Eduarda Silva", "11999999999", "Família", 3),
		NewInvitee("Ana Silva", "", "", 1),
		NewInvitee("Ana Paula Souza", "", "Amigos", 2),
	}
}

func TestMaxCompanions(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 0},
		{limit: 1, want: 0},
		{limit: 2, want: 1},
		{limit: 3, want: 2},
		{limit: 10, want: 9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxCompanions(tt.limit), "limit %d", tt.limit)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "ana silva", NormalizeName("  Ana   Silva "))
	assert.Equal(t, "joão", NormalizeName("JOÃO"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestReconcile(t *testing.T) {
	dir := directory()

	t.Run("exact match ignores case and spacing", func(t *testing.T) {
		m, err := Reconciler{}.Reconcile("  ANA   silva ", dir)
		require.NoError(t, err)
		require.True(t, m.Matched())
		assert.Equal(t, "Ana Silva", m.Invitee.FullName)
		assert.True(t, m.Capped)
		assert.Equal(t, 0, m.MaxCompanions)
	})

	t.Run("guest limit gives companions", func(t *testing.T) {
		m, err := Reconciler{}.Reconcile("maria eduarda silva", dir)
		require.NoError(t, err)
		assert.Equal(t, 2, m.MaxCompanions)
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		m, err := Reconciler{}.Reconcile("Carlos", dir)
		assert.ErrorIs(t, err, ErrNameNotFound)
		assert.False(t, m.Matched())
		assert.Equal(t, 0, m.MaxCompanions)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := Reconciler{}.Reconcile("  ", dir)
		assert.ErrorIs(t, err, ErrNameNotFound)
	})

	t.Run("empty directory does not cap", func(t *testing.T) {
		m, err := Reconciler{}.Reconcile("Anyone", nil)
		require.NoError(t, err)
		assert.False(t, m.Matched())
		assert.False(t, m.Capped)
	})

	t.Run("substring is off by default", func(t *testing.T) {
		_, err := Reconciler{}.Reconcile("Maria Eduarda", dir)
		assert.ErrorIs(t, err, ErrNameNotFound)
	})

	t.Run("substring finds a single candidate", func(t *testing.T) {
		m, err := Reconciler{AllowSubstring: true}.Reconcile("Maria Eduarda", dir)
		require.NoError(t, err)
		assert.Equal(t, "Maria Eduarda Silva", m.Invitee.FullName)
	})

	t.Run("substring with several candidates is ambiguous", func(t *testing.T) {
		_, err := Reconciler{AllowSubstring: true}.Reconcile("ana", dir)
		assert.ErrorIs(t, err, ErrAmbiguousName)
	})

	t.Run("exact wins over substring", func(t *testing.T) {
		m, err := Reconciler{AllowSubstring: true}.Reconcile("ana silva", dir)
		require.NoError(t, err)
		assert.Equal(t, "Ana Silva", m.Invitee.FullName)
	})
}

func TestNewInviteeDefaults(t *testing.T) {
	inv := NewInvitee("  Pedro Alves ", "", "", 0)

	assert.Equal(t, "Pedro Alves", inv.FullName)
	assert.Equal(t, "pedro alves", inv.NormalizedName)
	assert.Equal(t, DefaultCategory, inv.Category)
	assert.Equal(t, 1, inv.GuestLimit)
	assert.NotEqual(t, inv.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.NoError(t, inv.Validate())
}

func TestInviteeValidate(t *testing.T) {
	inv := NewInvitee("A", "", "", 1)
	err := inv.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full_name")
}
