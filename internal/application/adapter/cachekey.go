package adapter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// Cache key scheme. Keys are colon-joined segments; date-ranged selectors
// carry their inclusive bounds as the last two segments so the invalidator
// can compute overlap from the key alone.
//
//	ledger:income:range:2024-01-01:2024-01-31
//	ledger:spending:page:3:10:desc
//	stats:income:range:2024-01-01:2024-12-31
//	dashboard:summary:2024-01-01:2024-01-31

const (
	// DashboardPrefix covers every composite aggregate key. Dashboard keys
	// are invalidated unconditionally on any ledger mutation.
	DashboardPrefix = "dashboard:"

	rangeSegment = ":range:"
	dateLayout   = "2006-01-02"
)

// EntryRangeKey is the selector for a date-ranged entry list.
func EntryRangeKey(kind entity.EntryKind, start, end time.Time) string {
	return fmt.Sprintf("ledger:%s:range:%s:%s", kind, start.Format(dateLayout), end.Format(dateLayout))
}

// EntryPageKey is the selector for one page of entries.
func EntryPageKey(kind entity.EntryKind, pageNumber, pageSize int, descending bool) string {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	return fmt.Sprintf("ledger:%s:page:%d:%d:%s", kind, pageNumber, pageSize, dir)
}

// StatsRangeKey is the selector for per-kind statistics over a date range.
func StatsRangeKey(kind entity.EntryKind, start, end time.Time) string {
	return fmt.Sprintf("stats:%s:range:%s:%s", kind, start.Format(dateLayout), end.Format(dateLayout))
}

// DashboardSummaryKey is the selector for the composite summary.
func DashboardSummaryKey(start, end time.Time) string {
	return fmt.Sprintf("dashboard:summary:%s:%s", start.Format(dateLayout), end.Format(dateLayout))
}

// DashboardTrendsKey is the selector for a trend series.
func DashboardTrendsKey(start, end time.Time, granularity string) string {
	return fmt.Sprintf("dashboard:trends:%s:%s:%s", granularity, start.Format(dateLayout), end.Format(dateLayout))
}

// DashboardRecentKey is the selector for the recent-entries list.
func DashboardRecentKey(limit int) string {
	return fmt.Sprintf("dashboard:recent:%d", limit)
}

// KindPrefixes returns every prefix under which selectors for kind live.
func KindPrefixes(kind entity.EntryKind) []string {
	return []string{
		fmt.Sprintf("ledger:%s:", kind),
		fmt.Sprintf("stats:%s:", kind),
	}
}

// ParseRangeSelector extracts the inclusive date bounds from a ranged key.
// It returns ok=false for keys that carry no range selector.
func ParseRangeSelector(key string) (start, end time.Time, ok bool) {
	idx := strings.Index(key, rangeSegment)
	if idx < 0 {
		return time.Time{}, time.Time{}, false
	}
	rest := key[idx+len(rangeSegment):]
	parts := strings.Split(rest, ":")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation(dateLayout, parts[0], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.ParseInLocation(dateLayout, parts[1], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// RangeContains reports whether date falls inside the inclusive bounds.
func RangeContains(start, end, date time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
