package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/validation"
)

var (
	ErrAlreadyConfirmed     = errors.New("an RSVP already exists for this name")
	ErrAlreadySubmitted     = errors.New("this RSVP has already been submitted")
	ErrNotVerified          = errors.New("name must be verified before submitting")
	ErrTooManyCompanions    = errors.New("companion count exceeds the invitation limit")
	ErrCompanionsNotAllowed = errors.New("companions can only be added when attending")
	ErrCompanionIndex       = errors.New("companion index out of range")
)

// Ledger answers the duplicate-submission question
type Ledger interface {
	ExistsByName(ctx context.Context, normalizedName string) (bool, error)
}

// Writer persists a submitted RSVP
type Writer interface {
	Create(ctx context.Context, r *RSVP) error
}

// State is the lifecycle of one intake form instance
type State byte

const (
	StateEditing State = iota
	StateNameVerified
	StateAlreadyConfirmed
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateNameVerified:
		return "name_verified"
	case StateAlreadyConfirmed:
		return "already_confirmed"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// Intake is the server-side model of the RSVP form. It owns the derived
// fields (companion list sized to the count, cleared when declining) and
// walks editing → name_verified → submitting → submitted.
type Intake struct {
	Name       string
	Phone      string
	Message    string
	Attending  *bool
	Companions []Companion

	state State
	match invitee.Match
}

// NewIntake starts an empty form
func NewIntake() *Intake {
	return &Intake{Companions: []Companion{}}
}

// State returns the current lifecycle state
func (in *Intake) State() State {
	return in.state
}

// Match returns the reconciliation result of the last Verify
func (in *Intake) Match() invitee.Match {
	return in.match
}

func (in *Intake) editable() error {
	if in.state == StateSubmitting || in.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	return nil
}

// SetName changes the guest name; a different name needs a new Verify
func (in *Intake) SetName(name string) error {
	if err := in.editable(); err != nil {
		return err
	}
	if invitee.NormalizeName(name) != invitee.NormalizeName(in.Name) {
		in.state = StateEditing
		in.match = invitee.Match{}
	}
	in.Name = strings.TrimSpace(name)
	return nil
}

// SetPhone sets the contact phone
func (in *Intake) SetPhone(phone string) error {
	if err := in.editable(); err != nil {
		return err
	}
	in.Phone = strings.TrimSpace(phone)
	return nil
}

// SetMessage sets the optional message to the couple
func (in *Intake) SetMessage(message string) error {
	if err := in.editable(); err != nil {
		return err
	}
	in.Message = strings.TrimSpace(message)
	return nil
}

// SetAttending records the attendance choice; declining drops companions
func (in *Intake) SetAttending(attending bool) error {
	if err := in.editable(); err != nil {
		return err
	}
	in.Attending = &attending
	if !attending {
		in.Companions = []Companion{}
	}
	return nil
}

// SetCompanionCount resizes the companion sub-forms to n
func (in *Intake) SetCompanionCount(n int) error {
	if err := in.editable(); err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	if n > 0 && (in.Attending == nil || !*in.Attending) {
		return ErrCompanionsNotAllowed
	}
	if in.match.Capped && n > in.match.MaxCompanions {
		return fmt.Errorf("%w: at most %d", ErrTooManyCompanions, in.match.MaxCompanions)
	}
	if n > CompanionLimit {
		return fmt.Errorf("%w: at most %d", ErrTooManyCompanions, CompanionLimit)
	}
	in.Companions = ResizeCompanions(in.Companions, n)
	return nil
}

// SetCompanion fills the sub-form at index i
func (in *Intake) SetCompanion(i int, name string, kind CompanionType) error {
	if err := in.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(in.Companions) {
		return ErrCompanionIndex
	}
	if !kind.Valid() {
		kind = CompanionAdult
	}
	in.Companions[i] = Companion{Name: strings.TrimSpace(name), Type: kind}
	return nil
}

// Verify reconciles the name against the directory and runs the
// duplicate-submission guard. The guard is a point-in-time read.
func (in *Intake) Verify(ctx context.Context, r invitee.Reconciler, dir invitee.Directory, ledger Ledger) error {
	if err := in.editable(); err != nil {
		return err
	}

	match, err := r.Reconcile(in.Name, dir)
	if err != nil {
		in.state = StateEditing
		in.match = invitee.Match{}
		return err
	}
	in.match = match

	if match.Capped && len(in.Companions) > match.MaxCompanions {
		in.Companions = ResizeCompanions(in.Companions, match.MaxCompanions)
	}

	exists, err := ledger.ExistsByName(ctx, in.lookupKey())
	if err != nil {
		in.state = StateEditing
		return fmt.Errorf("failed to check existing RSVP: %w", err)
	}
	if exists {
		in.state = StateAlreadyConfirmed
		return ErrAlreadyConfirmed
	}

	in.state = StateNameVerified
	return nil
}

// lookupKey is the canonical directory name when matched, the typed name otherwise
func (in *Intake) lookupKey() string {
	if in.match.Invitee != nil {
		return invitee.NormalizeName(in.match.Invitee.FullName)
	}
	return invitee.NormalizeName(in.Name)
}

// Validate applies the form rules
func (in *Intake) Validate() error {
	v := validation.RSVPValidation{}
	errs := validation.FieldErrors{}

	errs.Add("name", v.ValidateGuestName(in.Name))
	errs.Add("phone", v.ValidatePhone(in.Phone))
	errs.Add("message", v.ValidateMessage(in.Message))

	if in.Attending == nil {
		errs.Add("attending", errors.New("attendance choice is required"))
		return errs.OrNil()
	}

	if !*in.Attending && len(in.Companions) > 0 {
		errs.Add("companions", ErrCompanionsNotAllowed)
	}
	if in.match.Capped && len(in.Companions) > in.match.MaxCompanions {
		errs.Add("companions", fmt.Errorf("at most %d companions allowed", in.match.MaxCompanions))
	}
	for i, c := range in.Companions {
		errs.Add(fmt.Sprintf("companions[%d].name", i), v.ValidateCompanionName(c.Name))
	}

	return errs.OrNil()
}

// Submit validates and writes the RSVP. The write error is returned to
// the caller and the intake falls back to name_verified; no retry happens here.
func (in *Intake) Submit(ctx context.Context, w Writer, now time.Time) (*RSVP, error) {
	switch in.state {
	case StateSubmitted, StateSubmitting:
		return nil, ErrAlreadySubmitted
	case StateAlreadyConfirmed:
		return nil, ErrAlreadyConfirmed
	case StateEditing:
		return nil, ErrNotVerified
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.state = StateSubmitting
	record := in.record(now)

	if err := w.Create(ctx, record); err != nil {
		in.state = StateNameVerified
		return nil, fmt.Errorf("failed to save RSVP: %w", err)
	}

	in.state = StateSubmitted
	return record, nil
}

func (in *Intake) record(now time.Time) *RSVP {
	r := &RSVP{
		ID:          uuid.New(),
		FullName:    in.Name,
		IsAttending: in.Attending != nil && *in.Attending,
		GuestNames:  append([]Companion(nil), in.Companions...),
		PhoneNumber: in.Phone,
		Message:     in.Message,
		Source:      SourceForm,
		CreatedAt:   now,
	}
	if in.match.Invitee != nil {
		id := in.match.Invitee.ID
		r.InviteeID = &id
		r.FullName = in.match.Invitee.FullName
	}
	r.NumberOfGuests = len(r.GuestNames)
	r.Normalize()
	return r
}
