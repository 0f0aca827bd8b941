// Package status classifies performance records into traffic-light buckets
// by comparing actual values against targets.
package status

import (
	"errors"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Status is the traffic-light classification of a record.
type Status string

const (
	Good     Status = "good"
	Moderate Status = "moderate"
	Bad      Status = "bad"
	Unknown  Status = "unknown"
)

// Ordered lists every status in display order.
var Ordered = []Status{Good, Moderate, Bad, Unknown}

// moderateRatio is the fraction of target an actual value must reach to be moderate.
const moderateRatio = 0.8

// Classify compares actual against target as float64 values.
// Either value failing to parse as a number yields Unknown. The comparison is
// multiplicative, so zero and negative targets follow the same inequalities.
// NaN fails every comparison and lands in Bad.
func Classify(target, actual string) Status {
	t, ok := ParseNumber(target)
	if !ok {
		return Unknown
	}
	a, ok := ParseNumber(actual)
	if !ok {
		return Unknown
	}

	switch {
	case a >= t:
		return Good
	case a >= t*moderateRatio:
		return Moderate
	default:
		return Bad
	}
}

// ParseNumber reads a decimal number the way spreadsheet exports write them:
// surrounding whitespace, a sign, digit-group underscores, inf, infinity and nan.
// Hexadecimal forms are rejected. Out-of-range values become the infinity or
// zero they round to.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 {
		return 0, false
	}
	if strings.EqualFold(body, "nan") {
		return math.NaN(), true
	}
	if len(body) > 1 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		return 0, false
	}

	if strings.Contains(s, "_") {
		var ok bool
		if s, ok = stripUnderscores(s); !ok {
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// stripUnderscores removes underscores that sit between two digits.
func stripUnderscores(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Color returns the chart color for the status.
func (s Status) Color() color.NRGBA {
	if c, ok := colors[s]; ok {
		return c
	}
	return Neutral
}

// Label returns the display label for the status.
func (s Status) Label() string {
	switch s {
	case Good:
		return "Good"
	case Moderate:
		return "Moderate"
	case Bad:
		return "Bad"
	default:
		return "Unknown"
	}
}

var colors = map[Status]color.NRGBA{
	Good:     {R: 0x2e, G: 0x9e, B: 0x44, A: 0xff},
	Moderate: {R: 0xf2, G: 0xc9, B: 0x1f, A: 0xff},
	Bad:      {R: 0xd6, G: 0x33, B: 0x2f, A: 0xff},
	Unknown:  {R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
}

// Neutral fills a chart that has no data.
var Neutral = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
