package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/scorecard/internal/api"
	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/internal/infrastructure"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/pkg/database"
	"github.com/JaimeStill/scorecard/pkg/middleware"
	"github.com/JaimeStill/scorecard/pkg/openapi"
	"github.com/JaimeStill/scorecard/pkg/pagination"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	archive := true
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "scorecard",
			User:            "scorecard",
			Password:        "scorecard",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "uploads",
			ConnectionString: azuriteConnString,
			ListPageSize:     500,
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "10MB",
			CORS:          middleware.CORSConfig{Enabled: false},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
			OpenAPI: openapi.Config{Title: "Scorecard API", Description: "test"},
		},
		Ingest: config.IngestConfig{
			BatchIDScope:   "organization",
			LockTTL:        "2m",
			ArchiveUploads: &archive,
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	m, err := api.NewModule(validConfig(), setupInfra(t))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}

	t.Run("serves openapi document", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Serve(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}

		var doc map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if doc["openapi"] != "3.1.0" {
			t.Errorf("openapi: got %v", doc["openapi"])
		}
	})

	t.Run("rejects invalid organization before touching storage", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Serve(rec, httptest.NewRequest("GET", "/api/organizations/not-a-uuid/batches", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Ingest.Scope() != records.ScopeOrganization {
		t.Errorf("scope: got %s, want organization", runtime.Ingest.Scope())
	}
	if runtime.Logger == infra.Logger {
		t.Error("runtime logger should be module scoped")
	}
	if runtime.Cache == nil || runtime.Locks == nil || runtime.Events == nil {
		t.Error("runtime is missing cache, locks, or events")
	}
}

func TestNewSpec(t *testing.T) {
	spec := api.NewSpec(validConfig())

	paths := []string{
		"/organizations",
		"/organizations/{org}",
		"/organizations/{org}/uploads",
		"/organizations/{org}/entries",
		"/organizations/{org}/records",
		"/organizations/{org}/batches",
		"/organizations/{org}/batches/{batch}",
		"/organizations/{org}/batches/{batch}/summary",
		"/organizations/{org}/batches/{batch}/records",
		"/organizations/{org}/batches/{batch}/name",
		"/organizations/{org}/batches/{batch}/source",
		"/organizations/{org}/batches/{batch}/charts",
		"/organizations/{org}/batches/{batch}/report",
	}
	for _, p := range paths {
		if _, ok := spec.Paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}

	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Info.Version != "0.1.0" {
		t.Errorf("version: got %s", spec.Info.Version)
	}
	if _, err := openapi.MarshalJSON(spec); err != nil {
		t.Errorf("marshal: %v", err)
	}
}
