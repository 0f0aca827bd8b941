package records

import (
	"net/url"

	"github.com/JaimeStill/scorecard/pkg/query"
	"github.com/JaimeStill/scorecard/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "records", "r").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("perspective", "Perspective").
	Project("objective", "Objective").
	Project("measure", "Measure").
	Project("target", "Target").
	Project("actual", "Actual").
	Project("owner", "Owner").
	Project("date", "Date").
	Project("batch_id", "BatchID").
	Project("batch_name", "BatchName").
	Project("row_number", "RowNumber").
	Project("attributes", "Attributes").
	Project("uploaded_at", "UploadedAt")

var defaultSort = []query.SortField{
	{Field: "BatchID", Descending: true},
	{Field: "RowNumber"},
}

// Filters contains optional filtering criteria for record queries.
// Perspective and BatchID match exactly; Owner and Measure match case-insensitive substrings.
type Filters struct {
	Perspective *string `json:"perspective,omitempty"`
	BatchID     *string `json:"batch_id,omitempty"`
	Owner       *string `json:"owner,omitempty"`
	Measure     *string `json:"measure,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Perspective", f.Perspective).
		WhereEquals("BatchID", f.BatchID).
		WhereContains("Owner", f.Owner).
		WhereContains("Measure", f.Measure)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if p := values.Get("perspective"); p != "" {
		f.Perspective = &p
	}

	if b := values.Get("batch_id"); b != "" {
		f.BatchID = &b
	}

	if o := values.Get("owner"); o != "" {
		f.Owner = &o
	}

	if m := values.Get("measure"); m != "" {
		f.Measure = &m
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.OrganizationID,
		&r.Perspective,
		&r.Objective,
		&r.Measure,
		&r.Target,
		&r.Actual,
		&r.Owner,
		&r.Date,
		&r.BatchID,
		&r.BatchName,
		&r.RowNumber,
		&r.Attributes,
		&r.UploadedAt,
	)
	return r, err
}

func scanString(s repository.Scanner) (string, error) {
	var v string
	err := s.Scan(&v)
	return v, err
}
