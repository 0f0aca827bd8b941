package batches_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/events"
	"github.com/JaimeStill/scorecard/pkg/lifecycle"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

// memStore keeps records in memory and scopes every operation by organization.
type memStore struct {
	records.System
	recs   []records.Record
	onList func()
}

func (m *memStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]records.Record, error) {
	var out []records.Record
	for _, r := range m.recs {
		if r.OrganizationID == orgID {
			out = append(out, r)
		}
	}
	if m.onList != nil {
		m.onList()
	}
	return out, nil
}

func (m *memStore) ListBatch(_ context.Context, orgID uuid.UUID, batchID string) ([]records.Record, error) {
	var out []records.Record
	for _, r := range m.recs {
		if r.OrganizationID == orgID && r.BatchID != nil && *r.BatchID == batchID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) RenameBatch(_ context.Context, orgID uuid.UUID, batchID, name string) (int, error) {
	n := 0
	for i, r := range m.recs {
		if r.OrganizationID == orgID && r.BatchID != nil && *r.BatchID == batchID {
			v := name
			m.recs[i].BatchName = &v
			n++
		}
	}
	if n == 0 {
		return 0, records.ErrNotFound
	}
	return n, nil
}

func (m *memStore) DeleteBatch(_ context.Context, orgID uuid.UUID, batchID string) (int, error) {
	kept := m.recs[:0]
	n := 0
	for _, r := range m.recs {
		if r.OrganizationID == orgID && r.BatchID != nil && *r.BatchID == batchID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.recs = kept
	if n == 0 {
		return 0, records.ErrNotFound
	}
	return n, nil
}

func (m *memStore) UpdateFields(_ context.Context, _ uuid.UUID, _ string, updates []records.FieldUpdate) (int, error) {
	for _, u := range updates {
		if u.Field == "batch_id" {
			return 0, records.ErrInvalidField
		}
	}
	return len(updates), nil
}

type memBlobs struct {
	blobs   map[string]string
	deleted []string
}

func (m *memBlobs) Start(*lifecycle.Coordinator) error { return nil }

func (m *memBlobs) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	m.blobs[key] = string(data)
	return err
}

func (m *memBlobs) Download(_ context.Context, key string) (*storage.Object, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Object{Body: io.NopCloser(strings.NewReader(data)), ContentType: "text/csv", ContentLength: int64(len(data))}, nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	delete(m.blobs, key)
	return nil
}

func (m *memBlobs) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.deleted = append(m.deleted, prefix)
	return 0, nil
}

func (m *memBlobs) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range m.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

type memCache struct {
	entries     map[string][]byte
	generations map[string]int64
	invalidated []string
}

func (m *memCache) Start(*lifecycle.Coordinator) error { return nil }

func (m *memCache) Generation(_ context.Context, scope string) (int64, error) {
	return m.generations[scope], nil
}

func (m *memCache) Get(_ context.Context, scope string, gen int64, name string, dest any) (bool, error) {
	data, ok := m.entries[fmt.Sprintf("%s/%d/%s", scope, gen, name)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memCache) Set(_ context.Context, scope string, gen int64, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[fmt.Sprintf("%s/%d/%s", scope, gen, name)] = data
	return nil
}

func (m *memCache) Invalidate(_ context.Context, scope string) error {
	m.invalidated = append(m.invalidated, scope)
	m.generations[scope]++
	for k := range m.entries {
		if strings.HasPrefix(k, scope+"/") {
			delete(m.entries, k)
		}
	}
	return nil
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, generations: map[string]int64{}}
}

func (m *memCache) Client() *redis.Client { return nil }

type recordingEvents struct {
	published []events.Event
}

func (r *recordingEvents) Start(*lifecycle.Coordinator) error { return nil }

func (r *recordingEvents) Publish(_ context.Context, evts ...events.Event) error {
	r.published = append(r.published, evts...)
	return nil
}

type fixture struct {
	sys    batches.System
	store  *memStore
	blobs  *memBlobs
	events *recordingEvents
}

func newFixture(recs ...records.Record) *fixture {
	f := &fixture{
		store:  &memStore{recs: recs},
		blobs:  &memBlobs{blobs: map[string]string{}},
		events: &recordingEvents{},
	}
	f.sys = batches.New(f.store, f.blobs, cache.Noop(), f.events, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func TestDashboardIsolatesOrganizations(t *testing.T) {
	f := newFixture(
		rec(orgA, "001", "", records.Financial, 2, "1", "1", t0),
		rec(orgB, "001", "", records.Financial, 2, "1", "0", t0),
		rec(orgB, "002", "", records.Customer, 2, "1", "0", t0),
	)

	a, err := f.sys.Dashboard(context.Background(), orgA)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(a) != 1 || a[0].Counts.Good != 1 || a[0].Counts.Bad != 0 {
		t.Errorf("org A dashboard = %+v", a)
	}

	b, err := f.sys.Dashboard(context.Background(), orgB)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(b) != 2 || b[0].BatchID != "002" || b[1].BatchID != "001" {
		t.Errorf("org B dashboard order = %+v", b)
	}
	for _, s := range b {
		for _, e := range s.Records {
			if e.OrganizationID != orgB {
				t.Errorf("org B dashboard contains record of %v", e.OrganizationID)
			}
		}
	}
}

func TestDetailNotFound(t *testing.T) {
	f := newFixture(rec(orgA, "001", "", records.Financial, 2, "1", "1", t0))

	if _, err := f.sys.Detail(context.Background(), orgB, "001"); !errors.Is(err, batches.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := f.sys.Detail(context.Background(), orgA, "009"); !errors.Is(err, batches.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRenameTouchesOnlyTargetBatch(t *testing.T) {
	f := newFixture(
		rec(orgA, "001", "Old", records.Financial, 2, "1", "1", t0),
		rec(orgA, "001", "Old", records.Customer, 3, "1", "1", t0),
		rec(orgA, "002", "Other", records.Financial, 2, "1", "1", t0),
		rec(orgB, "001", "Foreign", records.Financial, 2, "1", "1", t0),
	)

	res, err := f.sys.Rename(context.Background(), orgA, "001", "  New name ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !res.Success || res.NewName != "New name" {
		t.Errorf("result = %+v", res)
	}

	want := []string{"New name", "New name", "Other", "Foreign"}
	for i, r := range f.store.recs {
		if *r.BatchName != want[i] {
			t.Errorf("record %d name = %q, want %q", i, *r.BatchName, want[i])
		}
	}

	if len(f.events.published) != 1 || f.events.published[0].Type != batches.EventBatchRenamed {
		t.Errorf("events = %+v", f.events.published)
	}
}

func TestRenameRejections(t *testing.T) {
	f := newFixture(rec(orgA, "001", "", records.Financial, 2, "1", "1", t0))

	if _, err := f.sys.Rename(context.Background(), orgA, "001", "   "); !errors.Is(err, batches.ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
	if _, err := f.sys.Rename(context.Background(), orgA, "404", "x"); !errors.Is(err, batches.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(f.events.published) != 0 {
		t.Errorf("events = %+v, want none", f.events.published)
	}
}

func TestUpdateRecords(t *testing.T) {
	f := newFixture()

	if _, err := f.sys.UpdateRecords(context.Background(), orgA, "001", nil); !errors.Is(err, batches.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}

	_, err := f.sys.UpdateRecords(context.Background(), orgA, "001", []records.FieldUpdate{{Field: "batch_id"}})
	if !errors.Is(err, records.ErrInvalidField) {
		t.Errorf("err = %v, want ErrInvalidField", err)
	}

	n, err := f.sys.UpdateRecords(context.Background(), orgA, "001", []records.FieldUpdate{
		{Perspective: records.Financial, ID: uuid.New(), Field: "actual", Value: "5"},
	})
	if err != nil || n != 1 {
		t.Errorf("update = (%d, %v), want (1, nil)", n, err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(
		rec(orgA, "001", "", records.Financial, 2, "1", "1", t0),
		rec(orgA, "002", "", records.Financial, 2, "1", "1", t0),
	)

	n, err := f.sys.Delete(context.Background(), orgA, "001")
	if err != nil || n != 1 {
		t.Fatalf("delete = (%d, %v)", n, err)
	}
	if len(f.store.recs) != 1 || *f.store.recs[0].BatchID != "002" {
		t.Errorf("remaining = %+v", f.store.recs)
	}
	if len(f.blobs.deleted) != 1 || f.blobs.deleted[0] != "uploads/"+orgA.String()+"/001/" {
		t.Errorf("archive cleanup = %v", f.blobs.deleted)
	}

	if _, err := f.sys.Delete(context.Background(), orgA, "001"); !errors.Is(err, batches.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSource(t *testing.T) {
	f := newFixture()
	f.blobs.blobs["uploads/"+orgA.String()+"/003/Q1%20plan.csv"] = "a,b\n"

	obj, name, err := f.sys.Source(context.Background(), orgA, "003")
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	defer obj.Body.Close()

	if name != "Q1 plan.csv" {
		t.Errorf("filename = %q", name)
	}
	data, _ := io.ReadAll(obj.Body)
	if string(data) != "a,b\n" {
		t.Errorf("body = %q", data)
	}

	if _, _, err := f.sys.Source(context.Background(), orgA, "004"); !errors.Is(err, batches.ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestDashboardCache(t *testing.T) {
	f := newFixture(rec(orgA, "001", "Q1", records.Financial, 2, "10", "10", t0))
	mc := newMemCache()
	f.sys = batches.New(f.store, f.blobs, mc, f.events, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if _, err := f.sys.Dashboard(ctx, orgA); err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	f.store.recs = append(f.store.recs, rec(orgA, "002", "", records.Customer, 2, "1", "1", t0))

	cached, err := f.sys.Dashboard(ctx, orgA)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(cached) != 1 || cached[0].BatchName != "Q1" || cached[0].Records[0].Perspective != records.Financial {
		t.Fatalf("cached dashboard = %+v", cached)
	}

	if _, err := f.sys.Rename(ctx, orgA, "001", "Renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if len(mc.invalidated) != 1 || mc.invalidated[0] != orgA.String() {
		t.Errorf("invalidated = %v", mc.invalidated)
	}

	fresh, err := f.sys.Dashboard(ctx, orgA)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(fresh) != 2 || fresh[1].BatchName != "Renamed" {
		t.Errorf("fresh dashboard = %+v", fresh)
	}
}

func TestDashboardCacheInvalidatedDuringLoad(t *testing.T) {
	f := newFixture(rec(orgA, "001", "Q1", records.Financial, 2, "10", "10", t0))
	mc := newMemCache()
	f.sys = batches.New(f.store, f.blobs, mc, f.events, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	// the rename commits after the dashboard read its records and before it caches them
	renamed := false
	f.store.onList = func() {
		if renamed {
			return
		}
		renamed = true
		if _, err := f.sys.Rename(ctx, orgA, "001", "Renamed"); err != nil {
			t.Fatalf("rename: %v", err)
		}
	}

	stale, err := f.sys.Dashboard(ctx, orgA)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stale[0].BatchName != "Q1" {
		t.Fatalf("in-flight dashboard = %+v, want the name read before the rename", stale)
	}

	f.store.onList = nil
	got, err := f.sys.Dashboard(ctx, orgA)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(got) != 1 || got[0].BatchName != "Renamed" {
		t.Errorf("dashboard after invalidation = %+v, want the renamed batch", got)
	}
}
