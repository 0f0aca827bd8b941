// Package cache provides a JSON object cache backed by Redis.
// Entries are grouped by scope so all entries of a scope can be dropped together.
//
// Each scope carries a generation that Invalidate advances. Readers take the
// generation before loading the value they intend to cache and store under it,
// so a value loaded before an invalidation can never be served after it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/scorecard/pkg/lifecycle"
)

// System caches JSON-encoded values and tracks them per scope for invalidation.
type System interface {
	// Start registers connection checks and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Generation returns the current generation of scope.
	Generation(ctx context.Context, scope string) (int64, error)
	// Get decodes the value cached for scope/name at generation gen into dest
	// and reports whether it was present.
	Get(ctx context.Context, scope string, gen int64, name string, dest any) (bool, error)
	// Set stores value for scope/name at generation gen with the configured TTL.
	Set(ctx context.Context, scope string, gen int64, name string, value any) error
	// Invalidate advances the generation of scope and drops its stored entries.
	Invalidate(ctx context.Context, scope string) error
	// Client returns the underlying Redis client, or nil when caching is disabled.
	Client() *redis.Client
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache system. A config without an address yields a no-op cache.
func New(cfg *Config, logger *slog.Logger) System {
	logger = logger.With("system", "cache")

	if !cfg.Enabled() {
		logger.Info("cache disabled")
		return Noop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	return &redisCache{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTLDuration(),
		logger: logger,
	}
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache system")

	// An unreachable cache degrades to misses, so it never blocks readiness.
	lc.OnStartup("cache", func() error {
		if err := c.client.Ping(lc.Context()).Err(); err != nil {
			c.logger.Warn("redis ping failed, serving uncached", "error", err)
			return nil
		}
		c.logger.Info("redis connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.client.Close(); err != nil {
			c.logger.Error("redis close failed", "error", err)
			return
		}
		c.logger.Info("redis connection closed")
	})

	return nil
}

func (c *redisCache) Generation(ctx context.Context, scope string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generation(scope)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("cache generation %s: %w", scope, err)
	}
	return gen, nil
}

func (c *redisCache) Get(ctx context.Context, scope string, gen int64, name string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(scope, gen, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s/%s: %w", scope, name, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s/%s: %w", scope, name, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, scope string, gen int64, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s/%s: %w", scope, name, err)
	}

	key := c.key(scope, gen, name)
	members := c.members(scope)

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, c.ttl)
		pipe.SAdd(ctx, members, key)
		pipe.Expire(ctx, members, 2*c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache set %s/%s: %w", scope, name, err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context, scope string) error {
	if err := c.client.Incr(ctx, c.generation(scope)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", scope, err)
	}

	members := c.members(scope)
	keys, err := c.client.SMembers(ctx, members).Result()
	if err != nil {
		return fmt.Errorf("cache members %s: %w", scope, err)
	}

	keys = append(keys, members)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", scope, err)
	}
	return nil
}

func (c *redisCache) Client() *redis.Client {
	return c.client
}

func (c *redisCache) key(scope string, gen int64, name string) string {
	return fmt.Sprintf("%s:%s:%d:%s", c.prefix, scope, gen, name)
}

func (c *redisCache) generation(scope string) string {
	return fmt.Sprintf("%s:%s:gen", c.prefix, scope)
}

func (c *redisCache) members(scope string) string {
	return fmt.Sprintf("%s:%s:keys", c.prefix, scope)
}

type noop struct{}

// Noop returns a cache that never stores anything.
func Noop() System {
	return noop{}
}

func (noop) Start(*lifecycle.Coordinator) error { return nil }
func (noop) Generation(context.Context, string) (int64, error) { return 0, nil }
func (noop) Get(context.Context, string, int64, string, any) (bool, error) { return false, nil }
func (noop) Set(context.Context, string, int64, string, any) error { return nil }
func (noop) Invalidate(context.Context, string) error { return nil }
func (noop) Client() *redis.Client { return nil }
