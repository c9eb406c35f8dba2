package invitee

import (
	"errors"
	"strings"
)

var (
	// ErrNameNotFound blocks a submission whose name is not on the guest list
	ErrNameNotFound = errors.New("name not found on the guest list")
	// ErrAmbiguousName is returned by fuzzy matching when several invitees fit
	ErrAmbiguousName = errors.New("name matches more than one invitee")
)

// Directory is a point-in-time snapshot of the invitee list
type Directory []*Invitee

// Empty reports whether no guest list has been configured
func (d Directory) Empty() bool {
	return len(d) == 0
}

// Match is the outcome of a reconciliation
type Match struct {
	Invitee       *Invitee
	MaxCompanions int
	// Capped is false when no directory exists and companions are unrestricted
	Capped bool
}

// Matched reports whether a directory entry was found
func (m Match) Matched() bool {
	return m.Invitee != nil
}

// Reconciler matches free-text names against a Directory.
// Exact normalized equality is the default; AllowSubstring turns on the
// containment search, which is fuzzier ("ana" vs "ana paula").
type Reconciler struct {
	AllowSubstring bool
}

// Reconcile finds the invitee for name
func (r Reconciler) Reconcile(name string, dir Directory) (Match, error) {
	if dir.Empty() {
		return Match{}, nil
	}

	key := NormalizeName(name)
	if key == "" {
		return Match{}, ErrNameNotFound
	}

	for _, inv := range dir {
		if inv.NormalizedName == key || NormalizeName(inv.FullName) == key {
			return matchFor(inv), nil
		}
	}

	if !r.AllowSubstring {
		return Match{}, ErrNameNotFound
	}

	var candidates []*Invitee
	for _, inv := range dir {
		n := NormalizeName(inv.FullName)
		if strings.Contains(n, key) || strings.Contains(key, n) {
			candidates = append(candidates, inv)
		}
	}

	switch len(candidates) {
	case 0:
		return Match{}, ErrNameNotFound
	case 1:
		return matchFor(candidates[0]), nil
	default:
		return Match{}, ErrAmbiguousName
	}
}

func matchFor(inv *Invitee) Match {
	return Match{
		Invitee:       inv,
		MaxCompanions: inv.MaxCompanions(),
		Capped:        true,
	}
}
