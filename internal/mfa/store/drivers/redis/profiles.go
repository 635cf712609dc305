// Package redis caches authority user-record snapshots. A cache miss refetches
// from the authority; Invalidate deletes the key so the next read refetches.
// The cache is the only locally mutable copy of the record and is only ever
// written here, keeping the authority the single source of truth.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

const keyPrefix = "mfahub:user:"

// FetchFunc loads the authoritative record on cache miss. It must return
// store.ErrNotFound for unknown users.
type FetchFunc func(ctx context.Context, username string) (domain.UserRecord, error)

// ProfileCache implements store.ProfileStore on top of a redis client.
type ProfileCache struct {
	rdb   *redis.Client
	fetch FetchFunc
	ttl   time.Duration
}

func NewProfileCache(rdb *redis.Client, fetch FetchFunc, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, fetch: fetch, ttl: ttl}
}

// Current returns the cached snapshot, refetching from the authority on miss.
func (c *ProfileCache) Current(ctx context.Context, username string) (domain.UserRecord, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+username).Bytes()
	switch {
	case err == nil:
		var rec domain.UserRecord
		if jsonErr := json.Unmarshal(raw, &rec); jsonErr == nil {
			return rec, nil
		}
		// Corrupt entry: fall through to refetch, which overwrites it.
	case !errors.Is(err, redis.Nil):
		return domain.UserRecord{}, fmt.Errorf("failed to read cached record: %w", err)
	}

	rec, err := c.fetch(ctx, username)
	if err != nil {
		return domain.UserRecord{}, err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+username, payload, c.ttl).Err(); err != nil {
		return domain.UserRecord{}, fmt.Errorf("failed to cache record: %w", err)
	}

	return rec, nil
}

// Invalidate drops the cached snapshot. The next Current call refetches.
func (c *ProfileCache) Invalidate(ctx context.Context, username string) error {
	if err := c.rdb.Del(ctx, keyPrefix+username).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached record: %w", err)
	}
	return nil
}

// Ping verifies the redis connection.
func (c *ProfileCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
