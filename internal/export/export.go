package export

import (
	"io"
	"time"
)

// Write encodes the report in the requested format
func Write(w io.Writer, r *Report, f Format, now time.Time) error {
	if f == FormatPDF {
		return WritePDF(w, r, now)
	}
	return WriteCSV(w, r)
}
