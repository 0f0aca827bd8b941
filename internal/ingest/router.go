package ingest

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/tables"
)

// RequiredColumns must all be present in an uploaded table.
var RequiredColumns = []string{"perspective", "objective", "measure", "target", "actual"}

// MissingColumnsError lists the required columns absent from an upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// CheckColumns reports the required columns t lacks.
func CheckColumns(t *tables.Table) error {
	if missing := t.Missing(RequiredColumns...); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Routed is the outcome of routing every row of a table.
type Routed struct {
	Drafts      []records.Draft
	SkippedRows []int
}

// ByPerspective counts drafts per perspective, including zero counts.
func (r Routed) ByPerspective() map[records.Perspective]int {
	counts := make(map[records.Perspective]int, len(records.Perspectives))
	for _, p := range records.Perspectives {
		counts[p] = 0
	}
	for _, d := range r.Drafts {
		counts[d.Perspective]++
	}
	return counts
}

// Route converts each row into a draft for its perspective in a single pass.
// Rows whose perspective is not recognized are skipped and their numbers recorded.
func Route(t *tables.Table) Routed {
	routed := Routed{
		Drafts:      make([]records.Draft, 0, len(t.Rows)),
		SkippedRows: make([]int, 0),
	}

	for _, row := range t.Rows {
		p, ok := records.FromSheet(row.Get("perspective"))
		if !ok {
			routed.SkippedRows = append(routed.SkippedRows, row.Number)
			continue
		}
		routed.Drafts = append(routed.Drafts, draft(p, row))
	}

	return routed
}

func draft(p records.Perspective, row tables.Row) records.Draft {
	d := records.Draft{
		Perspective: p,
		Objective:   row.Get("objective"),
		Measure:     row.Get("measure"),
		Target:      row.Numeric("target"),
		Actual:      row.Numeric("actual"),
		Date:        records.ParseDate(row.Get("date")),
		RowNumber:   row.Number,
		Attributes:  records.Attributes{},
	}

	if owner := row.Get("owner"); owner != "" {
		d.Owner = &owner
	}

	defaults := p.Defaults()
	for _, key := range p.Attributes() {
		if v := row.Get(key); v != "" {
			d.Attributes[key] = v
		} else if v, ok := defaults[key]; ok {
			d.Attributes[key] = v
		}
	}

	return d
}
