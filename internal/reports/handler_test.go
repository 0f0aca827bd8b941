package reports_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/reports"
	"github.com/JaimeStill/scorecard/internal/status"
)

type mockSystem struct {
	chartsFn func(ctx context.Context, orgID uuid.UUID, batchID string) (map[records.Perspective]reports.Chart, error)
	renderFn func(ctx context.Context, orgID uuid.UUID, batchID string) ([]byte, error)
}

func (m *mockSystem) Handler() *reports.Handler {
	return reports.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (m *mockSystem) Charts(ctx context.Context, orgID uuid.UUID, batchID string) (map[records.Perspective]reports.Chart, error) {
	return m.chartsFn(ctx, orgID, batchID)
}

func (m *mockSystem) Render(ctx context.Context, orgID uuid.UUID, batchID string) ([]byte, error) {
	return m.renderFn(ctx, orgID, batchID)
}

func setupMux(h *reports.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func TestHandlerCharts(t *testing.T) {
	sys := &mockSystem{
		chartsFn: func(_ context.Context, _ uuid.UUID, batchID string) (map[records.Perspective]reports.Chart, error) {
			if batchID == "404" {
				return nil, batches.ErrNotFound
			}
			return map[records.Perspective]reports.Chart{
				records.Financial: {Counts: status.Counts{Good: 1}, Image: []byte{0x89, 'P', 'N', 'G'}},
			}, nil
		},
	}
	mux := setupMux(sys.Handler())

	t.Run("returns charts keyed by perspective", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/organizations/"+orgID.String()+"/batches/001/charts", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body struct {
			Charts map[string]struct {
				Counts status.Counts `json:"counts"`
				Image  string        `json:"image"`
			} `json:"charts"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		c, ok := body.Charts["financial"]
		if !ok {
			t.Fatalf("charts = %v, want financial", body.Charts)
		}
		if c.Counts.Good != 1 || c.Image != "iVBORw==" {
			t.Errorf("chart = %+v", c)
		}
	})

	t.Run("unknown batch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/organizations/"+orgID.String()+"/batches/404/charts", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("invalid organization", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/organizations/x/batches/001/charts", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerReport(t *testing.T) {
	sys := &mockSystem{
		renderFn: func(context.Context, uuid.UUID, string) ([]byte, error) {
			return []byte("%PDF-1.7"), nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/organizations/"+orgID.String()+"/batches/007/report", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "scorecard-batch-007.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if rec.Body.String() != "%PDF-1.7" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
