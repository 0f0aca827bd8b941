// Package reports renders batch summaries as status charts and PDF reports.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/records"
)

// System defines the public contract for report generation.
type System interface {
	Handler() *Handler

	// Charts renders one status pie chart per perspective of a batch.
	Charts(ctx context.Context, orgID uuid.UUID, batchID string) (map[records.Perspective]Chart, error)
	// Render produces a PDF with a section of pages per perspective of a batch.
	Render(ctx context.Context, orgID uuid.UUID, batchID string) ([]byte, error)
}

type exporter struct {
	batches batches.System
	logger  *slog.Logger
}

// New creates a report exporter reading batches from the aggregator.
func New(b batches.System, logger *slog.Logger) System {
	return &exporter{
		batches: b,
		logger:  logger.With("system", "reports"),
	}
}

func (e *exporter) Handler() *Handler {
	return NewHandler(e, e.logger)
}

func (e *exporter) Charts(ctx context.Context, orgID uuid.UUID, batchID string) (map[records.Perspective]Chart, error) {
	detail, err := e.batches.Detail(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}
	return RenderCharts(ctx, detail)
}

// RenderCharts draws the chart of every perspective concurrently.
func RenderCharts(ctx context.Context, detail *batches.Detail) (map[records.Perspective]Chart, error) {
	var (
		mu     sync.Mutex
		charts = make(map[records.Perspective]Chart, len(records.Perspectives))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range records.Perspectives {
		counts := detail.PerspectiveData[p]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chart, err := RenderChart(counts, DefaultChartSize)
			if err != nil {
				return fmt.Errorf("render %s chart: %w", p, err)
			}
			mu.Lock()
			charts[p] = chart
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return charts, nil
}

func (e *exporter) Render(ctx context.Context, orgID uuid.UUID, batchID string) ([]byte, error) {
	summary, err := e.batches.Find(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}

	pages, err := RenderPages(ctx, *summary)
	if err != nil {
		return nil, err
	}

	pdf, err := Assemble(pages, summary)
	if err != nil {
		return nil, err
	}

	e.logger.Info("report rendered", "organization", orgID, "batch", batchID, "bytes", len(pdf))
	return pdf, nil
}

// RenderPages draws and PNG-encodes the pages of every perspective, in display order.
// A perspective spans as many pages as its records need.
func RenderPages(ctx context.Context, s batches.Summary) ([][]byte, error) {
	detail := batches.NewDetail(s)
	grouped := s.ByPerspective()
	sections := make([][][]byte, len(records.Perspectives))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range records.Perspectives {
		g.Go(func() error {
			for n, img := range Pages(s, p, grouped[p], detail.PerspectiveData[p]) {
				if err := ctx.Err(); err != nil {
					return err
				}

				var buf bytes.Buffer
				if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
					return fmt.Errorf("encode %s page %d: %w", p, n+1, err)
				}
				sections[i] = append(sections[i], buf.Bytes())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(sections...), nil
}

// Assemble imports page images into a PDF, one image per page, stamps document
// properties, and checks the page count.
func Assemble(pages [][]byte, s *batches.Summary) ([]byte, error) {
	readers := make([]io.Reader, len(pages))
	for i, p := range pages {
		readers[i] = bytes.NewReader(p)
	}

	imp := pdfcpu.DefaultImportConfig()

	var raw bytes.Buffer
	if err := api.ImportImages(nil, &raw, readers, imp, nil); err != nil {
		return nil, fmt.Errorf("import page images: %w", err)
	}

	props := map[string]string{
		"Title":     fmt.Sprintf("Scorecard report: %s", s.BatchName),
		"Batch":     s.BatchID,
		"Generated": time.Now().UTC().Format(time.RFC3339),
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(raw.Bytes()), &out, props, nil); err != nil {
		return nil, fmt.Errorf("set report properties: %w", err)
	}

	count, err := api.PageCount(bytes.NewReader(out.Bytes()), nil)
	if err != nil {
		return nil, fmt.Errorf("read report page count: %w", err)
	}
	if count != len(pages) {
		return nil, fmt.Errorf("report has %d pages, want %d", count, len(pages))
	}

	return out.Bytes(), nil
}
