package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/database"
	"github.com/JaimeStill/scorecard/pkg/events"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvScorecardEnv             = "SCORECARD_ENV"
	EnvScorecardShutdownTimeout = "SCORECARD_SHUTDOWN_TIMEOUT"
	EnvScorecardVersion         = "SCORECARD_VERSION"
)

// DatabaseEnv maps database settings to their SCORECARD_DB_* variables.
var DatabaseEnv = &database.Env{
	Host:            "SCORECARD_DB_HOST",
	Port:            "SCORECARD_DB_PORT",
	Name:            "SCORECARD_DB_NAME",
	User:            "SCORECARD_DB_USER",
	Password:        "SCORECARD_DB_PASSWORD",
	SSLMode:         "SCORECARD_DB_SSL_MODE",
	MaxOpenConns:    "SCORECARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SCORECARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SCORECARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SCORECARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SCORECARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "SCORECARD_STORAGE_CONNECTION_STRING",
	ListPageSize:     "SCORECARD_STORAGE_LIST_PAGE_SIZE",
}

var cacheEnv = &cache.Env{
	Address:  "SCORECARD_CACHE_ADDRESS",
	Password: "SCORECARD_CACHE_PASSWORD",
	DB:       "SCORECARD_CACHE_DB",
	PoolSize: "SCORECARD_CACHE_POOL_SIZE",
	TTL:      "SCORECARD_CACHE_TTL",
	Prefix:   "SCORECARD_CACHE_PREFIX",
}

var eventsEnv = &events.Env{
	Brokers: "SCORECARD_EVENTS_BROKERS",
	Topic:   "SCORECARD_EVENTS_TOPIC",
}

// Config is the root configuration for the scorecard service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Cache           cache.Config    `toml:"cache"`
	Events          events.Config   `toml:"events"`
	API             APIConfig       `toml:"api"`
	Ingest          IngestConfig    `toml:"ingest"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the SCORECARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvScorecardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.Events.Merge(&overlay.Events)
	c.API.Merge(&overlay.API)
	c.Ingest.Merge(&overlay.Ingest)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(DatabaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Events.Finalize(eventsEnv); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Ingest.Finalize(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvScorecardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvScorecardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvScorecardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
