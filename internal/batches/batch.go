// Package batches aggregates an organization's records into batch-level views
// and applies batch-wide mutations.
package batches

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/status"
)

// Entry is a record with its computed status.
type Entry struct {
	records.Record
	Status           status.Status `json:"status"`
	PerspectiveLabel string        `json:"perspective_label"`
}

// Summary is one batch of records with status totals.
type Summary struct {
	BatchID    string        `json:"batch_id"`
	BatchName  string        `json:"batch_name"`
	UploadedAt time.Time     `json:"uploaded_at"`
	Counts     status.Counts `json:"counts"`
	Records    []Entry       `json:"records"`
}

// Detail holds per-perspective status totals of one batch.
// Every perspective is present, with zero counts when it has no records.
type Detail struct {
	BatchID         string                                `json:"batch_id"`
	BatchName       string                                `json:"batch_name"`
	PerspectiveData map[records.Perspective]status.Counts `json:"perspective_data"`
}

// RenameResult reports a successful rename.
type RenameResult struct {
	Success bool   `json:"success"`
	NewName string `json:"new_name"`
}

// DisplayName returns the first non-empty name or a name derived from the id.
func DisplayName(batchID string, names ...*string) string {
	for _, n := range names {
		if n != nil && *n != "" {
			return *n
		}
	}
	return fmt.Sprintf("Batch %s", batchID)
}

// Group classifies records and groups them by batch id, newest batch first.
// Records without a batch id are not part of any batch and are left out.
func Group(recs []records.Record) []Summary {
	index := make(map[string]int)
	summaries := make([]Summary, 0)
	names := make(map[string]*string)

	for _, rec := range recs {
		if rec.BatchID == nil {
			continue
		}
		id := *rec.BatchID

		i, ok := index[id]
		if !ok {
			i = len(summaries)
			index[id] = i
			summaries = append(summaries, Summary{BatchID: id, UploadedAt: rec.UploadedAt})
		}
		s := &summaries[i]

		if names[id] == nil && rec.BatchName != nil && *rec.BatchName != "" {
			names[id] = rec.BatchName
		}
		if rec.UploadedAt.Before(s.UploadedAt) {
			s.UploadedAt = rec.UploadedAt
		}

		st := status.Classify(rec.Target, rec.Actual)
		s.Counts.Add(st)
		s.Records = append(s.Records, Entry{
			Record:           rec,
			Status:           st,
			PerspectiveLabel: rec.Perspective.Label(),
		})
	}

	for i := range summaries {
		s := &summaries[i]
		s.BatchName = DisplayName(s.BatchID, names[s.BatchID])
		slices.SortStableFunc(s.Records, compareEntries)
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return cmp.Compare(b.BatchID, a.BatchID)
	})

	return summaries
}

// NewDetail computes per-perspective totals for one summary.
func NewDetail(s Summary) *Detail {
	data := make(map[records.Perspective]status.Counts, len(records.Perspectives))
	for _, p := range records.Perspectives {
		data[p] = status.Counts{}
	}
	for _, e := range s.Records {
		c := data[e.Perspective]
		c.Add(e.Status)
		data[e.Perspective] = c
	}

	return &Detail{
		BatchID:         s.BatchID,
		BatchName:       s.BatchName,
		PerspectiveData: data,
	}
}

// ByPerspective splits the entries of s by perspective, keeping their order.
func (s Summary) ByPerspective() map[records.Perspective][]Entry {
	out := make(map[records.Perspective][]Entry, len(records.Perspectives))
	for _, e := range s.Records {
		out[e.Perspective] = append(out[e.Perspective], e)
	}
	return out
}

func compareEntries(a, b Entry) int {
	return cmp.Or(
		cmp.Compare(a.Perspective.Index(), b.Perspective.Index()),
		cmp.Compare(rowNumber(a.RowNumber), rowNumber(b.RowNumber)),
		a.UploadedAt.Compare(b.UploadedAt),
	)
}

func rowNumber(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
