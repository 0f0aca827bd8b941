package tables

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf16LE = []byte{0xff, 0xfe}
	utf16BE = []byte{0xfe, 0xff}
)

// readCSV decodes comma-separated text. A UTF-8 or UTF-16 byte order mark
// selects the encoding; without one the content must be valid UTF-8.
func readCSV(data []byte) (*sheet, error) {
	if !bytes.HasPrefix(data, utf16LE) && !bytes.HasPrefix(data, utf16BE) && !utf8.Valid(data) {
		return nil, errors.New("content is not valid UTF-8")
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(decoded, 0) >= 0 {
		return nil, errors.New("content contains NUL bytes")
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1

	// rows are placed at their source line so blank lines keep numbering aligned
	rows := make([][]string, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := r.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}
	return &sheet{rows: rows}, nil
}
