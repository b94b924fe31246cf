// Package dashboard contains the composite aggregate use cases: the summary
// fan-out and the trend series.
package dashboard

import (
	"fmt"
	"time"

	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// Granularity controls how a trend series buckets its date range.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// validateGranularity rejects unknown granularities.
func validateGranularity(g Granularity) error {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return nil
	}
	return domainerror.NewValidation(
		domainerror.ErrCodeInvalidGranularity,
		"granularity must be: daily, weekly, or monthly",
	).WithMeta("granularity", string(g))
}

// PeriodInfo holds the bounds and label of a single trend bucket.
type PeriodInfo struct {
	Date        time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodLabel string
}

// GeneratePeriodLabel generates a human-readable label for a period.
// Formats:
// - Daily: "02/01/2006"
// - Weekly: "W{week} {year}" (e.g., "W12 2025")
// - Monthly: "{month_abbr} {year}" (e.g., "Mar 2025")
func GeneratePeriodLabel(date time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeekly:
		_, week := date.ISOWeek()
		return fmt.Sprintf("W%d %d", week, date.Year())
	case GranularityMonthly:
		return fmt.Sprintf("%s %d", date.Month().String()[:3], date.Year())
	default:
		return date.Format("02/01/2006")
	}
}

// GeneratePeriodSeries generates all periods between startDate and endDate for
// the given granularity. The series is continuous so chart rendering never
// sees gaps.
func GeneratePeriodSeries(startDate, endDate time.Time, granularity Granularity) []PeriodInfo {
	var periods []PeriodInfo

	switch granularity {
	case GranularityDaily:
		for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
			periods = append(periods, PeriodInfo{
				Date:        current,
				PeriodStart: current,
				PeriodEnd:   current,
				PeriodLabel: GeneratePeriodLabel(current, GranularityDaily),
			})
		}

	case GranularityWeekly:
		// Start from the Monday of the week containing startDate.
		for current := getWeekStartDate(startDate); !current.After(endDate); current = current.AddDate(0, 0, 7) {
			weekEnd := current.AddDate(0, 0, 6)
			if weekEnd.After(endDate) {
				weekEnd = endDate
			}
			periods = append(periods, PeriodInfo{
				Date:        current,
				PeriodStart: current,
				PeriodEnd:   weekEnd,
				PeriodLabel: GeneratePeriodLabel(current, GranularityWeekly),
			})
		}

	case GranularityMonthly:
		// Start from the first of the month containing startDate.
		current := time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, startDate.Location())
		for !current.After(endDate) {
			periods = append(periods, PeriodInfo{
				Date:        current,
				PeriodStart: current,
				PeriodEnd:   current.AddDate(0, 1, -1),
				PeriodLabel: GeneratePeriodLabel(current, GranularityMonthly),
			})
			current = current.AddDate(0, 1, 0)
		}
	}

	return periods
}

// GetPeriodKeyForDate returns the bucket key for the period containing the
// given date. Entries and generated periods bucketed with the same key land
// in the same trend point.
func GetPeriodKeyForDate(date time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeekly:
		return getWeekStartDate(date).Format("2006-01-02")
	case GranularityMonthly:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).Format("2006-01-02")
	default:
		return date.Format("2006-01-02")
	}
}

// getWeekStartDate returns the Monday of the week containing the given date.
func getWeekStartDate(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7
	}
	daysFromMonday := weekday - 1
	return time.Date(date.Year(), date.Month(), date.Day()-daysFromMonday, 0, 0, 0, 0, date.Location())
}
