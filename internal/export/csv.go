package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the report semicolon separated with a UTF-8 BOM, which
// is what spreadsheet programs in pt-BR locales open without a wizard.
func WriteCSV(w io.Writer, r *Report) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Title
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(r.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
