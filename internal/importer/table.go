package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnparseable is returned when a file cannot be read as a table at all
var ErrUnparseable = errors.New("file could not be parsed")

// ErrUnsupportedFormat is returned for extensions other than xlsx, xls, csv and txt
var ErrUnsupportedFormat = errors.New("unsupported file format")

// maxXLSRows bounds how many rows are read from a legacy workbook
const maxXLSRows = 50000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed sheet: the header row and the data rows
type Table struct {
	Headers []string
	Rows    [][]string
}

// Records turns every data row into a header → value map
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// ReadTable parses r according to the extension of filename
func ReadTable(filename string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		rows, err = readDelimited(data)
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	return newTable(rows)
}

func newTable(rows [][]string) (*Table, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrUnparseable)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &Table{Headers: headers, Rows: rows[1:]}, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// DetectDelimiter scans the header line for ';', then a tab, defaulting to ','
func DetectDelimiter(headerLine string) rune {
	switch {
	case strings.Contains(headerLine, ";"):
		return ';'
	case strings.Contains(headerLine, "\t"):
		return '\t'
	default:
		return ','
	}
}

func readDelimited(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	headerLine := string(data)
	if i := strings.IndexAny(headerLine, "\r\n"); i >= 0 {
		headerLine = headerLine[:i]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(headerLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return reader.ReadAll()
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = sheets[0]
	}

	return f.GetRows(sheet)
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return wb.ReadAllCells(maxXLSRows), nil
}
