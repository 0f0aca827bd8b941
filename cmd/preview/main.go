// Command preview parses a scorecard table without a database and prints what an
// upload would store: per-perspective status counts and skipped rows. It can also
// write the PDF report the batch would produce.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/ingest"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/reports"
	"github.com/JaimeStill/scorecard/internal/status"
	"github.com/JaimeStill/scorecard/internal/tables"
)

const previewBatch = "preview"

type preview struct {
	File          string                                `json:"file"`
	Rows          int                                   `json:"rows"`
	SkippedRows   []int                                 `json:"skipped_rows"`
	ByPerspective map[records.Perspective]status.Counts `json:"by_perspective"`
}

func main() {
	var (
		asJSON = flag.Bool("json", false, "Print the preview as JSON")
		pdf    = flag.String("pdf", "", "Write the batch report to this PDF file")
		name   = flag.String("name", "", "Batch name used in the report heading")
	)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: preview [-json] [-pdf out.pdf] [-name label] <file.csv|xlsx|xls>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	table, err := tables.Parse(data, filepath.Base(path))
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}
	if err := ingest.CheckColumns(table); err != nil {
		log.Fatal(err)
	}

	routed := ingest.Route(table)
	summary := summarize(routed, *name)
	detail := batches.NewDetail(summary)

	p := preview{
		File:          filepath.Base(path),
		Rows:          len(table.Rows),
		SkippedRows:   routed.SkippedRows,
		ByPerspective: detail.PerspectiveData,
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			log.Fatal(err)
		}
	} else {
		printTable(os.Stdout, p)
	}

	if *pdf != "" {
		if err := writeReport(*pdf, summary); err != nil {
			log.Fatalf("write report: %v", err)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", *pdf)
	}
}

// summarize turns routed drafts into the batch summary an upload would produce.
func summarize(routed ingest.Routed, name string) batches.Summary {
	batchID := previewBatch
	now := time.Now().UTC()

	var batchName *string
	if name != "" {
		batchName = &name
	}

	recs := make([]records.Record, len(routed.Drafts))
	for i, d := range routed.Drafts {
		row := d.RowNumber
		recs[i] = records.Record{
			ID:          uuid.New(),
			Perspective: d.Perspective,
			Objective:   d.Objective,
			Measure:     d.Measure,
			Target:      d.Target,
			Actual:      d.Actual,
			Owner:       d.Owner,
			Date:        d.Date,
			RowNumber:   &row,
			Attributes:  d.Attributes,
			BatchID:     &batchID,
			BatchName:   batchName,
			UploadedAt:  now,
		}
	}

	if groups := batches.Group(recs); len(groups) > 0 {
		return groups[0]
	}
	return batches.Summary{
		BatchID:    batchID,
		BatchName:  batches.DisplayName(batchID, batchName),
		UploadedAt: now,
	}
}

func printTable(w io.Writer, p preview) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PERSPECTIVE\tGOOD\tMODERATE\tBAD\tUNKNOWN\tTOTAL\n")
	for _, persp := range records.Perspectives {
		c := p.ByPerspective[persp]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", persp.Label(), c.Good, c.Moderate, c.Bad, c.Unknown, c.Total())
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d rows read, %d skipped", p.Rows, len(p.SkippedRows))
	if len(p.SkippedRows) > 0 {
		fmt.Fprintf(w, " (rows %v)", p.SkippedRows)
	}
	fmt.Fprintln(w)
}

func writeReport(path string, s batches.Summary) error {
	pages, err := reports.RenderPages(context.Background(), s)
	if err != nil {
		return err
	}

	out, err := reports.Assemble(pages, &s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
