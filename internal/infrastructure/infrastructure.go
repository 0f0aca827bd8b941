// Package infrastructure assembles the shared systems domain modules depend on:
// logging, database, blob storage, cache, locks, and event publishing.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/scorecard/internal/config"
	"github.com/JaimeStill/scorecard/pkg/cache"
	"github.com/JaimeStill/scorecard/pkg/database"
	"github.com/JaimeStill/scorecard/pkg/events"
	"github.com/JaimeStill/scorecard/pkg/lifecycle"
	"github.com/JaimeStill/scorecard/pkg/locks"
	"github.com/JaimeStill/scorecard/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Cache, locks, and events fall back to no-op implementations when unconfigured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Cache     cache.System
	Locks     locks.System
	Events    events.Publisher
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	c := cache.New(&cfg.Cache, logger)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Cache:     c,
		Locks:     locks.New(c.Client(), cfg.Cache.Prefix, logger),
		Events:    events.New(&cfg.Events, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Cache.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("cache start failed: %w", err)
	}
	if err := i.Events.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("events start failed: %w", err)
	}
	return nil
}
