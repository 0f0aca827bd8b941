package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/internal/records"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
port = 8080

[database]
host = "localhost"
name = "scorecard"
user = "scorecard"
password = "scorecard"

[storage]
container_name = "uploads"
connection_string = "UseDevelopmentStorage=true"

[cache]
ttl = "5m"

[api]
base_path = "/api"
max_upload_size = "5MB"

[api.pagination]
default_page_size = 25
max_page_size = 50

[ingest]
batch_id_scope = "global"
archive_uploads = false
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[cache]
address = "redis:6379"

[events]
brokers = ["kafka-1:9092", "kafka-2:9092"]
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.MaxUploadSizeBytes() != 5*1024*1024 {
		t.Errorf("max upload: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.API.Pagination.DefaultPageSize != 25 || cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination: got %+v", cfg.API.Pagination)
	}
	if cfg.API.OpenAPI.Title != "Scorecard API" {
		t.Errorf("openapi title: got %q", cfg.API.OpenAPI.Title)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be disabled without an address")
	}
	if cfg.Cache.TTLDuration() != 5*time.Minute {
		t.Errorf("cache ttl: got %v", cfg.Cache.TTLDuration())
	}
	if cfg.Events.Enabled() || cfg.Events.Topic != "scorecard.batches" {
		t.Errorf("events: got %+v", cfg.Events)
	}
	if cfg.Ingest.Scope() != records.ScopeGlobal {
		t.Errorf("scope: got %s, want global", cfg.Ingest.Scope())
	}

	opts := cfg.Ingest.Options()
	if opts.ArchiveUploads {
		t.Error("archive uploads should be disabled")
	}
	if opts.LockTTL != 2*time.Minute {
		t.Errorf("lock ttl: got %v, want 2m", opts.LockTTL)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvScorecardEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("env: got %s", cfg.Env())
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" || cfg.Database.Name != "scorecard" {
		t.Errorf("database: got host %s name %s", cfg.Database.Host, cfg.Database.Name)
	}
	if !cfg.Cache.Enabled() {
		t.Error("cache should be enabled by the overlay")
	}
	if len(cfg.Events.Brokers) != 2 {
		t.Errorf("brokers: got %v", cfg.Events.Brokers)
	}
	if cfg.Ingest.Scope() != records.ScopeGlobal {
		t.Errorf("scope lost in merge: got %s", cfg.Ingest.Scope())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	t.Setenv(config.EnvScorecardVersion, "2.0.0")
	t.Setenv(config.EnvServerPort, "3000")
	t.Setenv(config.EnvIngestBatchIDScope, "organization")
	t.Setenv(config.EnvIngestArchiveUploads, "true")
	t.Setenv("SCORECARD_EVENTS_BROKERS", " a:9092 , ,b:9092")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d", cfg.Server.Port)
	}
	if cfg.Ingest.Scope() != records.ScopeOrganization {
		t.Errorf("scope: got %s", cfg.Ingest.Scope())
	}
	if !cfg.Ingest.Options().ArchiveUploads {
		t.Error("archive uploads should be enabled by env")
	}
	if len(cfg.Events.Brokers) != 2 || cfg.Events.Brokers[0] != "a:9092" {
		t.Errorf("brokers: got %v", cfg.Events.Brokers)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("SCORECARD_DB_NAME", "testdb")
	t.Setenv("SCORECARD_DB_USER", "testuser")
	t.Setenv("SCORECARD_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config file failed: %v", err)
	}

	if cfg.Database.Name != "testdb" {
		t.Errorf("db name: got %s", cfg.Database.Name)
	}
	if cfg.Ingest.Scope() != records.ScopeOrganization {
		t.Errorf("default scope: got %s", cfg.Ingest.Scope())
	}
	if !cfg.Ingest.Options().ArchiveUploads {
		t.Error("archive uploads should default to enabled")
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown scope", config.EnvIngestBatchIDScope, "tenant"},
		{"bad lock ttl", config.EnvIngestLockTTL, "soon"},
		{"bad shutdown timeout", config.EnvScorecardShutdownTimeout, "never"},
		{"bad port", config.EnvServerPort, "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, baseConfig)
			t.Chdir(dir)
			t.Setenv(tt.key, tt.val)

			if _, err := config.Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMaxUploadSizeFallback(t *testing.T) {
	c := config.APIConfig{MaxUploadSize: "lots"}
	if got := c.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("fallback: got %d", got)
	}
}
