package adapter

import (
	"testing"
	"time"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKeyFormats(t *testing.T) {
	start := day(2026, time.March, 1)
	end := day(2026, time.March, 31)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"entry range", EntryRangeKey(entity.EntryKindIncome, start, end), "ledger:income:range:2026-03-01:2026-03-31"},
		{"entry page asc", EntryPageKey(entity.EntryKindSpending, 3, 10, false), "ledger:spending:page:3:10:asc"},
		{"entry page desc", EntryPageKey(entity.EntryKindSpending, 1, 20, true), "ledger:spending:page:1:20:desc"},
		{"stats range", StatsRangeKey(entity.EntryKindIncome, start, end), "stats:income:range:2026-03-01:2026-03-31"},
		{"dashboard summary", DashboardSummaryKey(start, end), "dashboard:summary:2026-03-01:2026-03-31"},
		{"dashboard trends", DashboardTrendsKey(start, end, "weekly"), "dashboard:trends:weekly:2026-03-01:2026-03-31"},
		{"dashboard recent", DashboardRecentKey(5), "dashboard:recent:5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestKindPrefixes(t *testing.T) {
	prefixes := KindPrefixes(entity.EntryKindIncome)
	if len(prefixes) != 2 || prefixes[0] != "ledger:income:" || prefixes[1] != "stats:income:" {
		t.Fatalf("unexpected prefixes: %v", prefixes)
	}
}

func TestParseRangeSelector(t *testing.T) {
	start, end, ok := ParseRangeSelector("ledger:income:range:2026-03-01:2026-03-31")
	if !ok {
		t.Fatal("expected a range selector")
	}
	if !start.Equal(day(2026, time.March, 1)) || !end.Equal(day(2026, time.March, 31)) {
		t.Fatalf("unexpected bounds: %v .. %v", start, end)
	}

	// Stats keys carry the same range segment.
	if _, _, ok := ParseRangeSelector("stats:spending:range:2026-01-01:2026-12-31"); !ok {
		t.Fatal("expected stats range key to parse")
	}

	nonRange := []string{
		"ledger:income:page:1:20:desc",
		"dashboard:recent:5",
		"ledger:income:range:2026-03-01",
		"ledger:income:range:not-a-date:2026-03-31",
		"ledger:income:range:2026-03-01:not-a-date",
	}
	for _, key := range nonRange {
		if _, _, ok := ParseRangeSelector(key); ok {
			t.Fatalf("expected %q to carry no parseable range", key)
		}
	}
}

func TestRangeContains(t *testing.T) {
	start := day(2026, time.March, 1)
	end := day(2026, time.March, 31)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"inside", day(2026, time.March, 15), true},
		{"lower bound inclusive", start, true},
		{"upper bound inclusive", end, true},
		{"before", day(2026, time.February, 28), false},
		{"after", day(2026, time.April, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RangeContains(start, end, tt.date); got != tt.want {
				t.Fatalf("RangeContains() = %v, want %v", got, tt.want)
			}
		})
	}
}
