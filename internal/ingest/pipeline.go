// Package ingest turns uploaded scorecard tables into stored record batches.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/internal/organizations"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/tables"
	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/events"
	"github.com/JaimeStill/scorecard/pkg/locks"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

// EventBatchIngested is published after a batch is stored.
const EventBatchIngested = "batch.ingested"

// System defines the public contract for upload ingestion.
type System interface {
	Handler(maxUploadSize int64) *Handler
	Ingest(ctx context.Context, cmd UploadCommand) (*Result, error)
}

// UploadCommand is one uploaded file for an organization.
type UploadCommand struct {
	OrganizationID uuid.UUID
	Filename       string
	Data           []byte
	BatchName      *string
}

// Result summarizes an ingested upload.
// BatchID is empty when no row could be routed and nothing was stored.
type Result struct {
	BatchID       string                      `json:"batch_id,omitempty"`
	BatchName     *string                     `json:"batch_name,omitempty"`
	Created       int                         `json:"created"`
	Skipped       int                         `json:"skipped"`
	SkippedRows   []int                       `json:"skipped_rows"`
	ByPerspective map[records.Perspective]int `json:"by_perspective"`
	SourceKey     string                      `json:"source_key,omitempty"`
}

// Options tunes the pipeline.
type Options struct {
	LockTTL        time.Duration
	ArchiveUploads bool
}

// Deps are the systems the pipeline coordinates.
type Deps struct {
	Organizations organizations.System
	Records       records.System
	Storage       storage.System
	Cache         cache.System
	Locks         locks.System
	Events        events.Publisher
}

type pipeline struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
}

// New creates the ingestion pipeline.
func New(deps Deps, opts Options, logger *slog.Logger) System {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 2 * time.Minute
	}
	return &pipeline{
		deps:   deps,
		opts:   opts,
		logger: logger.With("system", "ingest"),
	}
}

func (p *pipeline) Handler(maxUploadSize int64) *Handler {
	return NewHandler(p, p.logger, maxUploadSize)
}

// Ingest parses, routes, and stores one upload as a new batch.
// Nothing is stored when parsing fails, required columns are missing, or no row routes.
func (p *pipeline) Ingest(ctx context.Context, cmd UploadCommand) (res *Result, err error) {
	start := time.Now()
	defer func() {
		uploadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			recordOutcome(outcome(err))
		}
	}()

	if _, err := p.deps.Organizations.Find(ctx, cmd.OrganizationID); err != nil {
		return nil, err
	}

	release, err := p.deps.Locks.Obtain(ctx, "upload:"+cmd.OrganizationID.String(), p.opts.LockTTL)
	if err != nil {
		if errors.Is(err, locks.ErrNotObtained) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("upload lock: %w", err)
	}
	defer release(context.WithoutCancel(ctx))

	table, err := tables.Parse(cmd.Data, cmd.Filename)
	if err != nil {
		return nil, err
	}

	if err := CheckColumns(table); err != nil {
		return nil, err
	}

	routed := Route(table)
	res = &Result{
		BatchName:     cmd.BatchName,
		Skipped:       len(routed.SkippedRows),
		SkippedRows:   routed.SkippedRows,
		ByPerspective: routed.ByPerspective(),
	}

	if len(routed.Drafts) == 0 {
		p.logger.Info("upload contained no routable rows", "organization", cmd.OrganizationID, "skipped", res.Skipped)
		recordOutcome("empty")
		recordRows(res)
		return res, nil
	}

	batch, err := p.deps.Records.CreateBatch(ctx, records.BatchCommand{
		OrganizationID: cmd.OrganizationID,
		BatchName:      cmd.BatchName,
		Drafts:         routed.Drafts,
	})
	if err != nil {
		return nil, fmt.Errorf("store batch: %w", err)
	}

	res.BatchID = batch.ID
	res.Created = batch.Created

	if p.opts.ArchiveUploads {
		res.SourceKey = p.archive(ctx, cmd, table.Format, batch.ID)
	}

	if err := p.deps.Cache.Invalidate(ctx, cmd.OrganizationID.String()); err != nil {
		p.logger.Warn("cache invalidation failed", "organization", cmd.OrganizationID, "error", err)
	}

	p.publish(ctx, cmd.OrganizationID, res)

	recordOutcome("stored")
	recordRows(res)

	p.logger.Info(
		"upload ingested",
		"organization", cmd.OrganizationID,
		"batch", res.BatchID,
		"created", res.Created,
		"skipped", res.Skipped,
	)
	return res, nil
}

// archive stores the raw upload beside its batch. Failures are logged and leave the key empty.
func (p *pipeline) archive(ctx context.Context, cmd UploadCommand, format tables.Format, batchID string) string {
	key := SourceKey(cmd.OrganizationID, batchID, cmd.Filename)

	if err := p.deps.Storage.Upload(ctx, key, bytes.NewReader(cmd.Data), format.ContentType()); err != nil {
		p.logger.Warn("upload archive failed", "key", key, "error", err)
		return ""
	}
	return key
}

func (p *pipeline) publish(ctx context.Context, orgID uuid.UUID, res *Result) {
	data := map[string]any{
		"organization_id": orgID.String(),
		"batch_id":        res.BatchID,
		"created":         res.Created,
		"skipped":         res.Skipped,
	}
	if res.BatchName != nil {
		data["batch_name"] = *res.BatchName
	}

	err := p.deps.Events.Publish(ctx, events.Event{
		Type: EventBatchIngested,
		Key:  orgID.String(),
		Data: data,
	})
	if err != nil {
		p.logger.Warn("event publish failed", "type", EventBatchIngested, "error", err)
	}
}

// SourcePrefix is the blob key prefix of a batch's archived upload.
func SourcePrefix(orgID uuid.UUID, batchID string) string {
	return organizations.UploadsPrefix(orgID) + batchID + "/"
}

// SourceKey is the blob key of a batch's archived upload.
func SourceKey(orgID uuid.UUID, batchID, filename string) string {
	return SourcePrefix(orgID, batchID) + sanitizeFilename(filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return url.PathEscape(strings.ReplaceAll(name, "..", "_"))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, tables.ErrUnsupportedFormat):
		return "unsupported"
	case errors.Is(err, tables.ErrMalformedInput):
		return "malformed"
	case errors.Is(err, ErrMissingColumns):
		return "missing_columns"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, organizations.ErrNotFound):
		return "unknown_organization"
	}
	return "error"
}
