package tables

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// readXLSX returns the stored cell values of the first worksheet.
// Number formats are not applied, so grouped or currency-styled numbers keep
// their plain value. Date-styled serials are rendered as ISO dates.
func readXLSX(data []byte) (*sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	name := names[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dates := make(map[int]bool)
	for r, cells := range rows {
		for c, value := range cells {
			serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || serial < 0 {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(name, cell)
			if err != nil || styleID == 0 {
				continue
			}

			isDate, ok := dates[styleID]
			if !ok {
				style, err := f.GetStyle(styleID)
				isDate = err == nil && dateStyle(style)
				dates[styleID] = isDate
			}
			if !isDate {
				continue
			}

			if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
				cells[c] = isoDate(t)
			}
		}
	}

	return &sheet{rows: rows}, nil
}

// dateStyle reports whether a cell style renders its number as a calendar date.
// Time-only formats are left numeric.
func dateStyle(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return dateFormatCode(*style.CustomNumFmt)
	}
	return builtinDateFormat(style.NumFmt)
}

func builtinDateFormat(id int) bool {
	switch {
	case 14 <= id && id <= 17, id == 22:
		return true
	case 27 <= id && id <= 36, 50 <= id && id <= 58:
		return true
	}
	return false
}

// dateFormatCode reports whether a custom format code carries a day or year token
// outside quoted literals, bracketed sections, and escaped characters.
func dateFormatCode(code string) bool {
	quoted, bracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case quoted:
			quoted = c != '"'
		case bracket:
			bracket = c != ']'
		case c == '"':
			quoted = true
		case c == '[':
			bracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == 'd' || c == 'D' || c == 'y' || c == 'Y':
			return true
		}
	}
	return false
}

func isoDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// excelEpoch is day zero of the 1900 date system as the xls decoder counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// readXLS returns the cell values of the first worksheet of a legacy BIFF workbook.
// The decoder panics on some corrupt inputs; those surface as errors.
func readXLS(data []byte) (s *sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("decode xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, errors.New("workbook has no sheets")
	}

	s = &sheet{
		rows:    make([][]string, 0, int(ws.MaxRow)+1),
		serials: make(map[cellRef]string),
	}
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			s.rows = append(s.rows, nil)
			continue
		}

		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			value := row.Col(c)
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				cells[c] = isoDate(t)
				s.serials[cellRef{i, c}] = xlsSerial(t)
				continue
			}
			cells[c] = value
		}
		s.rows = append(s.rows, cells)
	}

	return s, nil
}

// xlsSerial recovers the number behind a cell the xls decoder rendered as a
// timestamp. The decoder drops sub-second precision, so the serial is rounded
// to four places.
func xlsSerial(t time.Time) string {
	seconds := int64(t.Sub(excelEpoch) / time.Second)
	return decimal.New(seconds, 0).Div(decimal.NewFromInt(86400)).Round(4).String()
}
