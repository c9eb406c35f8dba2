// Package export renders the admin reports as CSV or PDF tables.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/gravadigital/convite-api/internal/domain/gift"
	"github.com/gravadigital/convite-api/internal/domain/rsvp"
)

// Kind names a report
type Kind string

const (
	KindRSVPs    Kind = "rsvps"
	KindInvitees Kind = "invitees"
	KindGifts    Kind = "gifts"
)

// ParseKind validates a report kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRSVPs, KindInvitees, KindGifts:
		return k, nil
	default:
		return "", fmt.Errorf("unknown report kind %q", s)
	}
}

// Format is an output encoding
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat validates an output format; empty means CSV
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// ContentType is the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Column is a table column; Width is the relative PDF width
type Column struct {
	Title string
	Width float64
}

// Report is a titled table ready to be encoded
type Report struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

// Filename suggests a download name for the report
func (r *Report) Filename(kind Kind, f Format) string {
	return fmt.Sprintf("%s.%s", kind, f)
}

// RSVPReport lists every confirmation
func RSVPReport(rsvps []*rsvp.RSVP) *Report {
	r := &Report{
		Title: "Confirmações de Presença",
		Columns: []Column{
			{Title: "Nome", Width: 3},
			{Title: "Presença", Width: 1},
			{Title: "Acompanhantes", Width: 3},
			{Title: "Telefone", Width: 2},
			{Title: "Mensagem", Width: 4},
		},
	}
	for _, rec := range rsvps {
		r.Rows = append(r.Rows, []string{
			rec.FullName,
			yesNo(rec.IsAttending),
			companions(rec),
			rec.PhoneNumber,
			rec.Message,
		})
	}
	return r
}

// InviteeReport lists the directory with each invitee's answer state
func InviteeReport(status rsvp.StatusReport) *Report {
	r := &Report{
		Title: "Lista de Convidados",
		Columns: []Column{
			{Title: "Nome", Width: 4},
			{Title: "Telefone", Width: 2},
			{Title: "Categoria", Width: 2},
			{Title: "Limite", Width: 1},
			{Title: "Status", Width: 2},
		},
	}
	for _, row := range status.Rows {
		r.Rows = append(r.Rows, []string{
			row.Invitee.FullName,
			row.Invitee.PhoneNumber,
			row.Invitee.Category,
			fmt.Sprint(row.Invitee.GuestLimit),
			statusLabel(row.Status),
		})
	}
	return r
}

// GiftReport lists the registry
func GiftReport(gifts []*gift.Gift) *Report {
	r := &Report{
		Title: "Lista de Presentes",
		Columns: []Column{
			{Title: "Nome", Width: 3},
			{Title: "Preço", Width: 1},
			{Title: "Link", Width: 4},
		},
	}
	for _, g := range gifts {
		r.Rows = append(r.Rows, []string{g.Name, FormatBRL(g.Price), g.ExternalLink})
	}
	return r
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func statusLabel(s rsvp.Status) string {
	switch s {
	case rsvp.StatusConfirmed:
		return "Confirmado"
	case rsvp.StatusDeclined:
		return "Não vai"
	default:
		return "Pendente"
	}
}

func companions(rec *rsvp.RSVP) string {
	if !rec.IsAttending || rec.NumberOfGuests == 0 {
		return "0"
	}
	names := make([]string, 0, len(rec.GuestNames))
	for _, c := range rec.GuestNames {
		if c.Name == "" {
			continue
		}
		if c.Type == rsvp.CompanionChild {
			names = append(names, c.Name+" (criança)")
		} else {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprint(rec.NumberOfGuests)
	}
	return fmt.Sprintf("%d: %s", rec.NumberOfGuests, strings.Join(names, ", "))
}

// FormatBRL renders a price as Brazilian reais, e.g. "R$ 1.234,50"
func FormatBRL(v float64) string {
	cents := int64(math.Round(v * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := fmt.Sprint(cents / 100)
	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), cents%100)
}
