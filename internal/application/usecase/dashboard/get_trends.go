package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// GetTrendsInput represents the input for getting trends.
type GetTrendsInput struct {
	StartDate   time.Time
	EndDate     time.Time
	Granularity Granularity
}

// TrendPoint represents a single trend data point.
type TrendPoint struct {
	Date        time.Time       `json:"date"`
	PeriodLabel string          `json:"period_label"`
	Income      decimal.Decimal `json:"income"`
	Spending    decimal.Decimal `json:"spending"`
	Balance     decimal.Decimal `json:"balance"`
	EntryCount  int             `json:"entry_count"`
}

// TrendsPeriod represents the period information for trends.
type TrendsPeriod struct {
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Granularity Granularity `json:"granularity"`
}

// GetTrendsOutput represents the output of getting trends.
type GetTrendsOutput struct {
	Period TrendsPeriod `json:"period"`
	Trends []TrendPoint `json:"trends"`
}

// GetTrendsUseCase computes the income/spending trend series through the
// cache.
type GetTrendsUseCase struct {
	incomes   adapter.Repository[entity.IncomeEntry]
	spendings adapter.Repository[entity.SpendingEntry]
	cache     adapter.CacheService
	ttl       time.Duration
}

// NewGetTrendsUseCase creates a new GetTrendsUseCase instance.
func NewGetTrendsUseCase(
	incomes adapter.Repository[entity.IncomeEntry],
	spendings adapter.Repository[entity.SpendingEntry],
	cache adapter.CacheService,
	ttl time.Duration,
) *GetTrendsUseCase {
	return &GetTrendsUseCase{incomes: incomes, spendings: spendings, cache: cache, ttl: ttl}
}

// Execute retrieves the trend series for the given period and granularity.
func (uc *GetTrendsUseCase) Execute(ctx context.Context, input GetTrendsInput) (*GetTrendsOutput, error) {
	start, end, err := validateTrendRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateGranularity(input.Granularity); err != nil {
		return nil, err
	}

	key := adapter.DashboardTrendsKey(start, end, string(input.Granularity))
	trends, err := adapter.GetOrFetch(ctx, uc.cache, key, uc.ttl, func(ctx context.Context) ([]TrendPoint, error) {
		return uc.compute(ctx, start, end, input.Granularity)
	})
	if err != nil {
		return nil, err
	}

	return &GetTrendsOutput{
		Period: TrendsPeriod{StartDate: start, EndDate: end, Granularity: input.Granularity},
		Trends: trends,
	}, nil
}

// trendBucket accumulates one period's totals while entries are folded in.
type trendBucket struct {
	income   decimal.Decimal
	spending decimal.Decimal
	count    int
}

func (uc *GetTrendsUseCase) compute(ctx context.Context, start, end time.Time, granularity Granularity) ([]TrendPoint, error) {
	pred := adapter.DateBetween(start, end)

	incomes, err := uc.incomes.Find(ctx, pred, adapter.SortOrder{Column: "date"})
	if err != nil {
		return nil, err
	}
	spendings, err := uc.spendings.Find(ctx, pred, adapter.SortOrder{Column: "date"})
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*trendBucket)
	bucket := func(date time.Time) *trendBucket {
		key := GetPeriodKeyForDate(date, granularity)
		b, ok := buckets[key]
		if !ok {
			b = &trendBucket{income: decimal.Zero, spending: decimal.Zero}
			buckets[key] = b
		}
		return b
	}
	for _, e := range incomes {
		b := bucket(e.Date)
		b.income = b.income.Add(e.Amount)
		b.count++
	}
	for _, e := range spendings {
		b := bucket(e.Date)
		b.spending = b.spending.Add(e.Amount)
		b.count++
	}

	periods := GeneratePeriodSeries(start, end, granularity)
	trends := make([]TrendPoint, 0, len(periods))
	for _, period := range periods {
		point := TrendPoint{
			Date:        period.Date,
			PeriodLabel: period.PeriodLabel,
			Income:      decimal.Zero,
			Spending:    decimal.Zero,
			Balance:     decimal.Zero,
		}
		if b, ok := buckets[period.Date.Format("2006-01-02")]; ok {
			point.Income = b.income
			point.Spending = b.spending
			point.Balance = b.income.Sub(b.spending)
			point.EntryCount = b.count
		}
		trends = append(trends, point)
	}

	return trends, nil
}

// validateTrendRange normalizes an inclusive date range and rejects empty or
// inverted bounds.
func validateTrendRange(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, domainerror.NewValidation(
			domainerror.ErrCodeInvalidDate,
			domainerror.ErrInvalidDate.Error(),
		)
	}
	start = entity.NormalizeDate(start)
	end = entity.NormalizeDate(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, domainerror.NewValidation(
			domainerror.ErrCodeInvalidDateRange,
			domainerror.ErrInvalidDateRange.Error(),
		).WithMeta("start_date", start.Format("2006-01-02")).WithMeta("end_date", end.Format("2006-01-02"))
	}
	return start, end, nil
}
