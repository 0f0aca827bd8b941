package records

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Perspective is one of the four fixed Balanced Scorecard categories.
type Perspective string

const (
	Financial      Perspective = "financial"
	Customer       Perspective = "customer"
	Internal       Perspective = "internal"
	LearningGrowth Perspective = "learning_growth"
)

// Perspectives lists every perspective in display order.
var Perspectives = []Perspective{Financial, Customer, Internal, LearningGrowth}

type perspectiveInfo struct {
	label      string
	attributes []string
	defaults   map[string]string
}

var perspectives = map[Perspective]perspectiveInfo{
	Financial: {
		label:      "Financial",
		attributes: []string{"financial_metric", "currency", "period"},
		defaults:   map[string]string{"currency": "USD"},
	},
	Customer: {
		label:      "Customer",
		attributes: []string{"customer_segment", "satisfaction_metric", "loyalty_indicator"},
	},
	Internal: {
		label:      "Internal",
		attributes: []string{"process_name", "efficiency_metric", "quality_indicator"},
	},
	LearningGrowth: {
		label:      "Learning & Growth",
		attributes: []string{"skill_area", "training_metric", "innovation_indicator"},
	},
}

// sheetNames maps normalized spreadsheet perspective values to perspectives.
var sheetNames = map[string]Perspective{
	"financial":         Financial,
	"customer":          Customer,
	"internal":          Internal,
	"learning & growth": LearningGrowth,
}

// FromSheet resolves a spreadsheet perspective cell (trimmed, case-insensitive).
func FromSheet(value string) (Perspective, bool) {
	p, ok := sheetNames[strings.ToLower(strings.TrimSpace(value))]
	return p, ok
}

// ParsePerspective resolves an API perspective slug.
func ParsePerspective(slug string) (Perspective, error) {
	p := Perspective(strings.ToLower(strings.TrimSpace(slug)))
	if _, ok := perspectives[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPerspective, slug)
	}
	return p, nil
}

// Valid reports whether p is one of the four perspectives.
func (p Perspective) Valid() bool {
	_, ok := perspectives[p]
	return ok
}

// Label returns the display name.
func (p Perspective) Label() string {
	return perspectives[p].label
}

// Attributes returns the perspective-specific attribute keys.
func (p Perspective) Attributes() []string {
	return perspectives[p].attributes
}

// Defaults returns attribute values applied when an uploaded row leaves them empty.
func (p Perspective) Defaults() map[string]string {
	return perspectives[p].defaults
}

// HasAttribute reports whether key is a perspective-specific attribute of p.
func (p Perspective) HasAttribute(key string) bool {
	return slices.Contains(perspectives[p].attributes, key)
}

// Index returns the display position of p, or len(Perspectives) when unknown.
func (p Perspective) Index() int {
	if i := slices.Index(Perspectives, p); i >= 0 {
		return i
	}
	return len(Perspectives)
}

// UnmarshalJSON accepts slugs only.
func (p *Perspective) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePerspective(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
