package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/scorecard/internal/ingest"
	"github.com/JaimeStill/scorecard/internal/records"
)

const (
	EnvIngestBatchIDScope   = "SCORECARD_INGEST_BATCH_ID_SCOPE"
	EnvIngestLockTTL        = "SCORECARD_INGEST_LOCK_TTL"
	EnvIngestArchiveUploads = "SCORECARD_INGEST_ARCHIVE_UPLOADS"
)

// IngestConfig tunes upload ingestion and batch id allocation.
type IngestConfig struct {
	BatchIDScope   string `toml:"batch_id_scope"`
	LockTTL        string `toml:"lock_ttl"`
	ArchiveUploads *bool  `toml:"archive_uploads"`
}

// Scope returns the validated batch id allocation scope.
func (c *IngestConfig) Scope() records.Scope {
	scope, _ := records.ParseScope(c.BatchIDScope)
	return scope
}

// Options returns the pipeline options described by the config.
func (c *IngestConfig) Options() ingest.Options {
	ttl, _ := time.ParseDuration(c.LockTTL)
	return ingest.Options{
		LockTTL:        ttl,
		ArchiveUploads: c.ArchiveUploads == nil || *c.ArchiveUploads,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IngestConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *IngestConfig) Merge(overlay *IngestConfig) {
	if overlay.BatchIDScope != "" {
		c.BatchIDScope = overlay.BatchIDScope
	}
	if overlay.LockTTL != "" {
		c.LockTTL = overlay.LockTTL
	}
	if overlay.ArchiveUploads != nil {
		c.ArchiveUploads = overlay.ArchiveUploads
	}
}

func (c *IngestConfig) loadDefaults() {
	if c.BatchIDScope == "" {
		c.BatchIDScope = string(records.ScopeOrganization)
	}
	if c.LockTTL == "" {
		c.LockTTL = "2m"
	}
}

func (c *IngestConfig) loadEnv() {
	if v := os.Getenv(EnvIngestBatchIDScope); v != "" {
		c.BatchIDScope = v
	}
	if v := os.Getenv(EnvIngestLockTTL); v != "" {
		c.LockTTL = v
	}
	if v := os.Getenv(EnvIngestArchiveUploads); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ArchiveUploads = &b
		}
	}
}

func (c *IngestConfig) validate() error {
	if _, err := records.ParseScope(c.BatchIDScope); err != nil {
		return err
	}
	d, err := time.ParseDuration(c.LockTTL)
	if err != nil {
		return fmt.Errorf("invalid lock_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("lock_ttl must be positive")
	}
	return nil
}
