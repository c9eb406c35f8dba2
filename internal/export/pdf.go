package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfLineHeight = 7.0
	pdfFontSize   = 9.0
)

// WritePDF renders the report as a landscape A4 table. Long cells are
// truncated to their column width.
func WritePDF(w io.Writer, r *Report, generatedAt time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	widths := columnWidths(r.Columns, pageW-left-right)

	header := func() {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(240, 228, 232)
		for i, c := range r.Columns {
			pdf.CellFormat(widths[i], pdfLineHeight, tr(c.Title), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s - %d registros", generatedAt.Format("02/01/2006 15:04"), len(r.Rows))), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	header()
	_, pageH := pdf.GetPageSize()
	for _, row := range r.Rows {
		if pdf.GetY()+pdfLineHeight > pageH-15 {
			pdf.AddPage()
			header()
		}
		for i := range r.Columns {
			cell := ""
			if i < len(row) {
				cell = tr(fit(pdf, tr, row[i], widths[i]-2))
			}
			pdf.CellFormat(widths[i], pdfLineHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func columnWidths(cols []Column, total float64) []float64 {
	sum := 0.0
	for _, c := range cols {
		sum += c.Width
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		if sum == 0 {
			out[i] = total / float64(len(cols))
			continue
		}
		out[i] = total * c.Width / sum
	}
	return out
}

// fit measures in the translated encoding but cuts on UTF-8 rune boundaries
func fit(pdf *fpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if pdf.GetStringWidth(tr(s)) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)+"...")) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
