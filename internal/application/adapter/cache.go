package adapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// CacheService is a keyed, explicitly invalidated snapshot cache. Set and the
// delete operations are atomic per key; no cross-key locking is implied.
type CacheService interface {
	// Get returns the cached value. A miss is (nil, false, nil), not a
	// failure.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeleteByPrefix removes every key under prefix; used when a bulk
	// mutation makes per-key invalidation impractical.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Keys lists the live keys under prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// LedgerCacheInvalidator applies the invalidation protocol after a committed
// ledger mutation. Implementations absorb cache failures: a stale cache entry
// is a defect of the read path, never of the write that already committed, so
// none of these methods can fail the triggering command.
type LedgerCacheInvalidator interface {
	// EntryMutated invalidates the keys whose date selector overlaps date,
	// drops the kind's non-selector keys, and clears every dashboard key.
	EntryMutated(ctx context.Context, kind entity.EntryKind, date time.Time)

	// RangeMutated clears every cached selector for the kind plus the
	// dashboard keys; used for bulk and range mutations.
	RangeMutated(ctx context.Context, kind entity.EntryKind)

	// DashboardsMutated clears only the dashboard keys; used for mutations
	// (category renames) that change how aggregates render without touching
	// ledger rows.
	DashboardsMutated(ctx context.Context)
}

// GetOrFetch reads key through cache, falling back to fetch on a miss and
// populating the cache with the fetched value. Cache failures on either side
// are absorbed with a warning; only fetch can fail the read.
func GetOrFetch[T any](ctx context.Context, cache CacheService, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, hit, err := cache.Get(ctx, key)
	if err != nil {
		slog.Warn("cache read failed, falling back to store", "key", key, "error", err)
	} else if hit {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		slog.Warn("cache entry undecodable, falling back to store", "key", key)
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(value); err == nil {
		if err := cache.Set(ctx, key, raw, ttl); err != nil {
			slog.Warn("cache populate failed", "key", key, "error", err)
		}
	}

	return value, nil
}
