package importer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownColumn is returned when an override names a header the file lacks
var ErrUnknownColumn = errors.New("column not found in file headers")

// Field is a schema field a column can be mapped to
type Field string

const (
	FieldName       Field = "name"
	FieldPhone      Field = "phone"
	FieldCategory   Field = "category"
	FieldGuestLimit Field = "guest_limit"
	FieldAttending  Field = "attending"
	FieldGuests     Field = "guests"
	FieldMessage    Field = "message"
)

// ParseField accepts a field name as written on the command line or in a request
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldName, FieldPhone, FieldCategory, FieldGuestLimit, FieldAttending, FieldGuests, FieldMessage:
		return f, nil
	case "guestlimit", "limit":
		return FieldGuestLimit, nil
	default:
		return "", fmt.Errorf("unknown import field %q", s)
	}
}

var synonyms = map[Field][]string{
	FieldName:       {"nome", "name", "convidado", "guest"},
	FieldPhone:      {"telefone", "phone", "celular", "whatsapp", "fone", "tel"},
	FieldCategory:   {"categoria", "category", "grupo", "group", "tipo"},
	FieldGuestLimit: {"qtd", "quantidade", "limite", "total", "pessoas", "convites", "limit", "party", "size"},
	FieldAttending:  {"presen", "confirm", "attending", "vai"},
	FieldGuests:     {"acompanh", "companion", "guests"},
	FieldMessage:    {"mensagem", "message", "recado", "obs"},
}

// preferredName headers beat a plain "nome" column
var preferredName = []string{"nome completo", "full name"}

// Detection order: the more specific fields claim their columns first so
// that "Quantidade de convidados" lands on the limit and "Nome do
// acompanhante" on the companions, leaving the plain name column for last.
var (
	inviteeFields = []Field{FieldGuestLimit, FieldPhone, FieldCategory, FieldName}
	rsvpFields    = []Field{FieldGuests, FieldAttending, FieldMessage, FieldPhone, FieldName}
)

// Mapping assigns a header to each resolved field
type Mapping map[Field]string

// Header returns the mapped header and whether the field resolved
func (m Mapping) Header(f Field) (string, bool) {
	h, ok := m[f]
	return h, ok && h != ""
}

// String renders the mapping in a stable order for logs
func (m Mapping) String() string {
	parts := make([]string, 0, len(m))
	for f, h := range m {
		parts = append(parts, fmt.Sprintf("%s=%q", f, h))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// DetectMapping maps headers onto fields by case-insensitive substring
// match against the synonym lists. It is a best-effort classifier; an
// override passed to ApplyOverride always wins.
func DetectMapping(headers []string, fields []Field) Mapping {
	m := Mapping{}
	used := make(map[int]bool)

	claim := func(f Field, match func(h string) bool) bool {
		for i, h := range headers {
			if used[i] || h == "" {
				continue
			}
			if match(strings.ToLower(h)) {
				m[f] = h
				used[i] = true
				return true
			}
		}
		return false
	}

	for _, f := range fields {
		if f == FieldName && claim(f, func(h string) bool { return containsAny(h, preferredName) }) {
			continue
		}
		claim(f, func(h string) bool { return containsAny(h, synonyms[f]) })
	}

	return m
}

// ApplyOverride replaces detected entries with caller supplied headers.
// Override headers are matched case-insensitively against the file headers.
func ApplyOverride(m Mapping, headers []string, override map[Field]string) (Mapping, error) {
	if len(override) == 0 {
		return m, nil
	}

	out := Mapping{}
	for f, h := range m {
		out[f] = h
	}

	for f, want := range override {
		found := ""
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(want)) {
				found = h
				break
			}
		}
		if found == "" {
			return nil, fmt.Errorf("%w: %q for field %s", ErrUnknownColumn, want, f)
		}
		for other, h := range out {
			if h == found && other != f {
				delete(out, other)
			}
		}
		out[f] = found
	}

	return out, nil
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// ParseOverride reads "field=header" pairs, as given on the command line
// or in an upload form, into a mapping override
func ParseOverride(pairs []string) (map[Field]string, error) {
	override := make(map[Field]string, len(pairs))
	for _, p := range pairs {
		name, header, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(header) == "" {
			return nil, fmt.Errorf("invalid mapping %q, expected field=header", p)
		}
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		override[f] = strings.TrimSpace(header)
	}
	return override, nil
}
