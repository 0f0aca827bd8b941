// Package locks provides short-lived distributed locks backed by Redis.
package locks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained indicates the lock is currently held by another caller.
var ErrNotObtained = errors.New("lock held by another operation")

// Release frees an obtained lock.
type Release func(ctx context.Context)

// System obtains named locks.
type System interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

type redisLocker struct {
	client *redislock.Client
	prefix string
	logger *slog.Logger
}

// New creates a lock system on the given Redis client.
// A nil client yields a local no-op locker.
func New(client *redis.Client, prefix string, logger *slog.Logger) System {
	if client == nil {
		return Noop()
	}
	return &redisLocker{
		client: redislock.New(client),
		prefix: prefix,
		logger: logger.With("system", "locks"),
	}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	name := fmt.Sprintf("%s:lock:%s", l.prefix, key)

	lock, err := l.client.Obtain(ctx, name, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrNotObtained
		}
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("lock release failed", "key", key, "error", err)
		}
	}, nil
}

type noop struct{}

// Noop returns a locker that always succeeds.
func Noop() System {
	return noop{}
}

func (noop) Obtain(context.Context, string, time.Duration) (Release, error) {
	return func(context.Context) {}, nil
}
