// Package importer reads guest lists and RSVP sheets exported from
// spreadsheets. Columns are matched by header name, rows become new
// records and nothing is merged with what is already stored.
package importer

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gravadigital/convite-api/internal/domain/invitee"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
	"github.com/gravadigital/convite-api/internal/logger"
)

// SkippedRow explains why a data row was not imported
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of parsing one file
type Result[T any] struct {
	Records []T          `json:"-"`
	Mapping Mapping      `json:"mapping"`
	Skipped []SkippedRow `json:"skipped"`
}

// Imported is the number of accepted rows
func (r *Result[T]) Imported() int {
	return len(r.Records)
}

// Options tunes a parse
type Options struct {
	// Override maps a field to a header, winning over detection
	Override map[Field]string
}

// ReadInvitees parses an uploaded guest list
func ReadInvitees(filename string, r io.Reader, opts Options) (*Result[*invitee.Invitee], error) {
	t, err := ReadTable(filename, r)
	if err != nil {
		return nil, err
	}
	return ParseInvitees(t, opts)
}

// ReadRSVPs parses an uploaded RSVP sheet
func ReadRSVPs(filename string, r io.Reader, opts Options) (*Result[*rsvp.RSVP], error) {
	t, err := ReadTable(filename, r)
	if err != nil {
		return nil, err
	}
	return ParseRSVPs(t, opts)
}

// ParseInvitees turns a table into invitees. Rows without a name are skipped.
func ParseInvitees(t *Table, opts Options) (*Result[*invitee.Invitee], error) {
	mapping, err := ApplyOverride(DetectMapping(t.Headers, inviteeFields), t.Headers, opts.Override)
	if err != nil {
		return nil, err
	}

	log := logger.Import()
	log.Debug("Invitee column mapping", "mapping", mapping.String())

	res := &Result[*invitee.Invitee]{Mapping: mapping, Skipped: []SkippedRow{}}
	for i, rec := range t.Records() {
		line := i + 2
		name := field(rec, mapping, FieldName)
		if name == "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "missing name"})
			continue
		}

		inv := invitee.NewInvitee(
			name,
			field(rec, mapping, FieldPhone),
			field(rec, mapping, FieldCategory),
			parseCount(field(rec, mapping, FieldGuestLimit), 1),
		)
		res.Records = append(res.Records, inv)
	}

	log.Info("Parsed invitee sheet", "imported", res.Imported(), "skipped", len(res.Skipped))
	return res, nil
}

// ParseRSVPs turns a table into RSVP records tagged with the import source
func ParseRSVPs(t *Table, opts Options) (*Result[*rsvp.RSVP], error) {
	mapping, err := ApplyOverride(DetectMapping(t.Headers, rsvpFields), t.Headers, opts.Override)
	if err != nil {
		return nil, err
	}

	log := logger.Import()
	log.Debug("RSVP column mapping", "mapping", mapping.String())

	res := &Result[*rsvp.RSVP]{Mapping: mapping, Skipped: []SkippedRow{}}
	for i, rec := range t.Records() {
		line := i + 2
		name := field(rec, mapping, FieldName)
		if name == "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "missing name"})
			continue
		}

		r := &rsvp.RSVP{
			FullName:    name,
			IsAttending: ParseAttending(field(rec, mapping, FieldAttending)),
			PhoneNumber: field(rec, mapping, FieldPhone),
			Message:     field(rec, mapping, FieldMessage),
			Source:      rsvp.SourceImport,
		}
		companions, ok := parseCompanions(field(rec, mapping, FieldGuests))
		if !ok {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: "companion count too large"})
			continue
		}
		r.GuestNames, r.NumberOfGuests = companions, len(companions)
		r.Normalize()
		res.Records = append(res.Records, r)
	}

	log.Info("Parsed RSVP sheet", "imported", res.Imported(), "skipped", len(res.Skipped))
	return res, nil
}

func field(rec map[string]string, m Mapping, f Field) string {
	h, ok := m.Header(f)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rec[h])
}

var firstNumber = regexp.MustCompile(`\d+`)

// parseCount reads the first integer in s ("3", "3 pessoas", "3.0")
func parseCount(s string, fallback int) int {
	n, err := strconv.Atoi(firstNumber.FindString(s))
	if err != nil {
		return fallback
	}
	return n
}

// ParseAttending reads the yes/no spellings found in guest sheets
func ParseAttending(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "s", "yes", "y", "true", "1", "x", "confirmado", "confirmada", "vai", "vou":
		return true
	default:
		return false
	}
}

var (
	companionSeparators = regexp.MustCompile(`[,;/\n]+`)
	digitsOnly          = regexp.MustCompile(`^[-+]?\d+$`)
)

// parseCompanions accepts either a count or a list of companion names.
// It reports false when the cell asks for more than rsvp.CompanionLimit.
func parseCompanions(s string) ([]rsvp.Companion, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []rsvp.Companion{}, true
	}

	if digitsOnly.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n > rsvp.CompanionLimit {
			return nil, false
		}
		return rsvp.ResizeCompanions(nil, n), true
	}

	out := []rsvp.Companion{}
	for _, name := range companionSeparators.Split(s, -1) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, rsvp.Companion{Name: name, Type: rsvp.CompanionAdult})
		}
	}
	if len(out) > rsvp.CompanionLimit {
		return nil, false
	}
	return out, true
}
