package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// invalidator applies the ledger invalidation protocol. Callers invoke it
// strictly after a successful commit. Every failure here is absorbed with a
// warning: the write already committed durably, and coupling its outcome to
// cache liveness is exactly what the protocol forbids.
type invalidator struct {
	cache adapter.CacheService
}

// NewInvalidator creates the ledger cache invalidator.
func NewInvalidator(cache adapter.CacheService) adapter.LedgerCacheInvalidator {
	return &invalidator{cache: cache}
}

// EntryMutated drops every key for kind whose date selector overlaps date,
// drops the kind's non-selector keys (paged lists cannot be checked for
// overlap), and clears the dashboard keys unconditionally.
func (inv *invalidator) EntryMutated(ctx context.Context, kind entity.EntryKind, date time.Time) {
	date = entity.NormalizeDate(date)

	for _, prefix := range adapter.KindPrefixes(kind) {
		keys, err := inv.cache.Keys(ctx, prefix)
		if err != nil {
			slog.Warn("cache invalidation scan failed", "prefix", prefix, "error", err)
			continue
		}

		var stale []string
		for _, key := range keys {
			start, end, ok := adapter.ParseRangeSelector(key)
			if !ok || adapter.RangeContains(start, end, date) {
				stale = append(stale, key)
			}
		}
		if err := inv.cache.Delete(ctx, stale...); err != nil {
			slog.Warn("cache invalidation failed", "prefix", prefix, "keys", len(stale), "error", err)
		}
	}

	inv.DashboardsMutated(ctx)
}

// RangeMutated clears every cached selector for kind plus the dashboard keys.
func (inv *invalidator) RangeMutated(ctx context.Context, kind entity.EntryKind) {
	for _, prefix := range adapter.KindPrefixes(kind) {
		if err := inv.cache.DeleteByPrefix(ctx, prefix); err != nil {
			slog.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
	inv.DashboardsMutated(ctx)
}

// DashboardsMutated clears every composite aggregate key. Whole-period
// aggregates cannot be selectively invalidated without a per-range dependency
// graph, so the clear is unconditional.
func (inv *invalidator) DashboardsMutated(ctx context.Context) {
	if err := inv.cache.DeleteByPrefix(ctx, adapter.DashboardPrefix); err != nil {
		slog.Warn("dashboard cache invalidation failed", "error", err)
	}
}
