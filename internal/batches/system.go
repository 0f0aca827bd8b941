package batches

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/internal/ingest"
	"github.com/JaimeStill/scorecard/internal/organizations"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/events"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

// Batch lifecycle event types.
const (
	EventBatchUpdated  = "batch.updated"
	EventBatchRenamed  = "batch.renamed"
	EventBatchDeleted  = "batch.deleted"
	EventBatchesPurged = "batches.purged"
)

const dashboardKey = "dashboard"

// System defines the public contract for batch aggregation and batch-wide mutations.
type System interface {
	Handler() *Handler

	Dashboard(ctx context.Context, orgID uuid.UUID) ([]Summary, error)
	Find(ctx context.Context, orgID uuid.UUID, batchID string) (*Summary, error)
	Detail(ctx context.Context, orgID uuid.UUID, batchID string) (*Detail, error)

	UpdateRecords(ctx context.Context, orgID uuid.UUID, batchID string, updates []records.FieldUpdate) (int, error)
	Rename(ctx context.Context, orgID uuid.UUID, batchID, name string) (*RenameResult, error)
	Delete(ctx context.Context, orgID uuid.UUID, batchID string) (int, error)
	DeleteAll(ctx context.Context, orgID uuid.UUID) (int, error)

	// Source opens the archived upload of a batch. The caller must close the body.
	Source(ctx context.Context, orgID uuid.UUID, batchID string) (*storage.Object, string, error)
}

type service struct {
	records records.System
	storage storage.System
	cache   cache.System
	events  events.Publisher
	logger  *slog.Logger
}

// New creates the batch aggregator.
func New(
	recs records.System,
	store storage.System,
	cache cache.System,
	publisher events.Publisher,
	logger *slog.Logger,
) System {
	return &service{
		records: recs,
		storage: store,
		cache:   cache,
		events:  publisher,
		logger:  logger.With("system", "batches"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Dashboard(ctx context.Context, orgID uuid.UUID) ([]Summary, error) {
	var cached []Summary
	gen, hit := s.lookup(ctx, orgID, dashboardKey, &cached)
	if hit {
		return cached, nil
	}

	recs, err := s.records.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	summaries := Group(recs)
	s.store(ctx, orgID, gen, dashboardKey, summaries)
	return summaries, nil
}

func (s *service) Find(ctx context.Context, orgID uuid.UUID, batchID string) (*Summary, error) {
	recs, err := s.records.ListBatch(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}

	summaries := Group(recs)
	if len(summaries) == 0 {
		return nil, ErrNotFound
	}
	return &summaries[0], nil
}

func (s *service) Detail(ctx context.Context, orgID uuid.UUID, batchID string) (*Detail, error) {
	key := "detail:" + batchID

	var cached Detail
	gen, hit := s.lookup(ctx, orgID, key, &cached)
	if hit {
		return &cached, nil
	}

	summary, err := s.Find(ctx, orgID, batchID)
	if err != nil {
		return nil, err
	}

	detail := NewDetail(*summary)
	s.store(ctx, orgID, gen, key, detail)
	return detail, nil
}

func (s *service) UpdateRecords(ctx context.Context, orgID uuid.UUID, batchID string, updates []records.FieldUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, fmt.Errorf("%w: no updates", ErrInvalidRequest)
	}

	n, err := s.records.UpdateFields(ctx, orgID, batchID, updates)
	if err != nil {
		return 0, err
	}

	s.changed(ctx, orgID, EventBatchUpdated, map[string]any{"batch_id": batchID, "updated": n})
	return n, nil
}

func (s *service) Rename(ctx context.Context, orgID uuid.UUID, batchID, name string) (*RenameResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if _, err := s.records.RenameBatch(ctx, orgID, batchID, name); err != nil {
		return nil, batchError(err)
	}

	s.changed(ctx, orgID, EventBatchRenamed, map[string]any{"batch_id": batchID, "batch_name": name})
	return &RenameResult{Success: true, NewName: name}, nil
}

func (s *service) Delete(ctx context.Context, orgID uuid.UUID, batchID string) (int, error) {
	n, err := s.records.DeleteBatch(ctx, orgID, batchID)
	if err != nil {
		return 0, batchError(err)
	}

	if _, err := s.storage.DeletePrefix(ctx, ingest.SourcePrefix(orgID, batchID)); err != nil {
		s.logger.Warn("archived upload cleanup failed", "organization", orgID, "batch", batchID, "error", err)
	}

	s.changed(ctx, orgID, EventBatchDeleted, map[string]any{"batch_id": batchID, "deleted": n})
	return n, nil
}

func (s *service) DeleteAll(ctx context.Context, orgID uuid.UUID) (int, error) {
	n, err := s.records.DeleteAll(ctx, orgID)
	if err != nil {
		return 0, err
	}

	if _, err := s.storage.DeletePrefix(ctx, organizations.UploadsPrefix(orgID)); err != nil {
		s.logger.Warn("archived upload cleanup failed", "organization", orgID, "error", err)
	}

	s.changed(ctx, orgID, EventBatchesPurged, map[string]any{"deleted": n})
	return n, nil
}

func (s *service) Source(ctx context.Context, orgID uuid.UUID, batchID string) (*storage.Object, string, error) {
	keys, err := s.storage.Keys(ctx, ingest.SourcePrefix(orgID, batchID))
	if err != nil {
		return nil, "", fmt.Errorf("list archived uploads: %w", err)
	}
	if len(keys) == 0 {
		return nil, "", ErrNoSource
	}

	obj, err := s.storage.Download(ctx, keys[0])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrNoSource
		}
		return nil, "", err
	}

	name := path.Base(keys[0])
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return obj, name, nil
}

// noGeneration marks a lookup whose generation could not be read; nothing is stored for it.
const noGeneration = -1

// lookup reads a cached view and returns the generation a freshly loaded view
// must be stored under. Cache errors are logged and treated as misses.
func (s *service) lookup(ctx context.Context, orgID uuid.UUID, key string, dest any) (int64, bool) {
	view := strings.SplitN(key, ":", 2)[0]
	scope := orgID.String()

	gen, err := s.cache.Generation(ctx, scope)
	if err != nil {
		s.logger.Warn("cache read failed", "organization", orgID, "key", key, "error", err)
		cacheCounter.WithLabelValues(view, "miss").Inc()
		return noGeneration, false
	}

	hit, err := s.cache.Get(ctx, scope, gen, key, dest)
	if err != nil {
		s.logger.Warn("cache read failed", "organization", orgID, "key", key, "error", err)
		hit = false
	}

	result := "miss"
	if hit {
		result = "hit"
	}
	cacheCounter.WithLabelValues(view, result).Inc()
	return gen, hit
}

// store caches a view under the generation observed before it was loaded.
// A view loaded across an invalidation lands in a retired generation and is never read.
func (s *service) store(ctx context.Context, orgID uuid.UUID, gen int64, key string, value any) {
	if gen == noGeneration {
		return
	}
	if err := s.cache.Set(ctx, orgID.String(), gen, key, value); err != nil {
		s.logger.Warn("cache write failed", "organization", orgID, "key", key, "error", err)
	}
}

// changed drops the organization's cached views and announces the mutation.
func (s *service) changed(ctx context.Context, orgID uuid.UUID, eventType string, data map[string]any) {
	mutationCounter.WithLabelValues(eventType).Inc()

	if err := s.cache.Invalidate(ctx, orgID.String()); err != nil {
		s.logger.Warn("cache invalidation failed", "organization", orgID, "error", err)
	}

	data["organization_id"] = orgID.String()
	if err := s.events.Publish(ctx, events.Event{Type: eventType, Key: orgID.String(), Data: data}); err != nil {
		s.logger.Warn("event publish failed", "type", eventType, "error", err)
	}

	s.logger.Info("batch mutation applied", "type", eventType, "organization", orgID)
}

func batchError(err error) error {
	if errors.Is(err, records.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
