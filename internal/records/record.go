// Package records implements the performance record store.
// Records are scoped to an organization and grouped into batches by upload.
package records

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is one performance measure within a perspective.
// Target and Actual are kept as entered; they need not be numeric.
type Record struct {
	ID             uuid.UUID   `json:"id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	Perspective    Perspective `json:"perspective"`
	Objective      string      `json:"objective"`
	Measure        string      `json:"measure"`
	Target         string      `json:"target"`
	Actual         string      `json:"actual"`
	Owner          *string     `json:"owner"`
	Date           *Date       `json:"date"`
	BatchID        *string     `json:"batch_id"`
	BatchName      *string     `json:"batch_name"`
	RowNumber      *int        `json:"row_number"`
	Attributes     Attributes  `json:"attributes"`
	UploadedAt     time.Time   `json:"uploaded_at"`
}

// Draft carries the routed values of one row before it is stored.
type Draft struct {
	Perspective Perspective
	Objective   string
	Measure     string
	Target      string
	Actual      string
	Owner       *string
	Date        *Date
	RowNumber   int
	Attributes  Attributes
}

// BatchCommand inserts drafts as one batch for an organization.
type BatchCommand struct {
	OrganizationID uuid.UUID
	BatchName      *string
	Drafts         []Draft
}

// Batch reports the identifier allocated to an inserted batch.
type Batch struct {
	ID      string `json:"batch_id"`
	Created int    `json:"created"`
}

// Entry is the flat export shape of a record.
type Entry struct {
	Perspective Perspective `json:"perspective"`
	Objective   string      `json:"objective"`
	Measure     string      `json:"measure"`
	Target      string      `json:"target"`
	Actual      string      `json:"actual"`
	Owner       *string     `json:"owner"`
	Date        *Date       `json:"date"`
}

// Entry returns the flat export shape of r.
func (r Record) Entry() Entry {
	return Entry{
		Perspective: r.Perspective,
		Objective:   r.Objective,
		Measure:     r.Measure,
		Target:      r.Target,
		Actual:      r.Actual,
		Owner:       r.Owner,
		Date:        r.Date,
	}
}

// FieldUpdate sets one editable field of one record.
type FieldUpdate struct {
	Perspective Perspective `json:"perspective"`
	ID          uuid.UUID   `json:"id"`
	Field       string      `json:"field"`
	Value       string      `json:"value"`
}

// Attributes holds perspective-specific optional fields, stored as JSONB.
type Attributes map[string]string

// Scan implements sql.Scanner.
func (a *Attributes) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan attributes: unsupported type %T", src)
	}

	attrs := Attributes{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return fmt.Errorf("scan attributes: %w", err)
	}
	*a = attrs
	return nil
}

// Value implements driver.Valuer.
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
