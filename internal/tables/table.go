// Package tables decodes uploaded spreadsheets into header-keyed rows.
// Column names are trimmed and lowercased; cell values are trimmed strings.
package tables

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format identifies a supported tabular file encoding.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	XLS  Format = "xls"
)

var contentTypes = map[Format]string{
	CSV:  "text/csv",
	XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	XLS:  "application/vnd.ms-excel",
}

// DetectFormat resolves the format from the filename extension, case-insensitively.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(filename)), "."))
	switch f := Format(ext); f {
	case CSV, XLSX, XLS:
		return f, nil
	}
	return "", ErrUnsupportedFormat
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Row is one data row of a table.
// Number is the 1-based position of the row in the source sheet, header included.
type Row struct {
	Number int
	Cells  map[string]string

	serials map[string]string
}

// Get returns the trimmed cell value for column, or "" when absent.
func (r Row) Get(column string) string {
	return r.Cells[column]
}

// Numeric returns the value for a column read as a number. A cell the decoder
// could only render as a date yields its underlying serial; any other cell
// yields the same value as Get.
func (r Row) Numeric(column string) string {
	if v, ok := r.serials[column]; ok {
		return v
	}
	return r.Cells[column]
}

// sheet is the raw grid produced by a reader.
// serials holds the numbers behind cells rendered as dates without format information.
type sheet struct {
	rows    [][]string
	serials map[cellRef]string
}

type cellRef struct {
	row, col int
}

// Table is a decoded sheet: normalized column names and rows in file order.
type Table struct {
	Format  Format
	Columns []string
	Rows    []Row
}

// Has reports whether the table carries the named column.
func (t *Table) Has(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Missing returns the required columns absent from the table, in the order given.
func (t *Table) Missing(required ...string) []string {
	missing := make([]string, 0)
	for _, r := range required {
		if !t.Has(NormalizeColumn(r)) {
			missing = append(missing, r)
		}
	}
	return missing
}

// NormalizeColumn trims and lowercases a header cell.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Parse decodes data according to the format implied by filename.
func Parse(data []byte, filename string) (*Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, malformed(errors.New("empty file"))
	}

	var grid *sheet
	switch format {
	case CSV:
		grid, err = readCSV(data)
	case XLSX:
		grid, err = readXLSX(data)
	case XLS:
		grid, err = readXLS(data)
	}
	if err != nil {
		return nil, malformed(err)
	}

	table, err := build(grid, format == CSV)
	if err != nil {
		return nil, malformed(err)
	}
	table.Format = format
	return table, nil
}

// build turns raw sheet rows into a Table. The first non-blank row is the header.
// Blank rows are dropped. With strict set, cells past the header width must be blank;
// otherwise they are ignored. Cells may not contain NUL characters.
func build(grid *sheet, strict bool) (*Table, error) {
	header := -1
	for i, cells := range grid.rows {
		if !blank(cells) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, errors.New("no header row")
	}

	columns := make([]string, 0, len(grid.rows[header]))
	index := make([]int, 0, len(grid.rows[header]))
	seen := make(map[string]bool)
	for i, cell := range grid.rows[header] {
		name := NormalizeColumn(cell)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, name)
		index = append(index, i)
	}
	width := len(grid.rows[header])

	rows := make([]Row, 0, len(grid.rows)-header-1)
	for i := header + 1; i < len(grid.rows); i++ {
		cells := grid.rows[i]
		if blank(cells) {
			continue
		}
		if strict && len(cells) > width && !blank(cells[width:]) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(cells), width)
		}

		row := Row{Number: i + 1, Cells: make(map[string]string, len(columns))}
		for j, name := range columns {
			value := ""
			k := index[j]
			if k < len(cells) {
				value = strings.TrimSpace(cells[k])
			}
			if strings.IndexByte(value, 0) >= 0 {
				return nil, fmt.Errorf("row %d column %q contains a NUL character", i+1, name)
			}
			row.Cells[name] = value

			if serial, ok := grid.serials[cellRef{i, k}]; ok {
				if row.serials == nil {
					row.serials = make(map[string]string)
				}
				row.serials[name] = serial
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
