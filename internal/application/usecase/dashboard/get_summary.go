package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/application/usecase/ledger"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	"github.com/ledger-keeper/backend/internal/domain/result"
)

// DefaultRecentLimit bounds the recent-entries slot when the caller does not
// ask for a specific size.
const DefaultRecentLimit = 5

// GetSummaryInput represents the input for the composite summary.
type GetSummaryInput struct {
	StartDate   time.Time
	EndDate     time.Time
	RecentLimit int
}

// SummaryTotals carries the period totals for both entry kinds.
type SummaryTotals struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	Balance       decimal.Decimal `json:"balance"`
	IncomeCount   int64           `json:"income_count"`
	SpendingCount int64           `json:"spending_count"`
}

// GetSummaryOutput represents the output of the composite summary.
type GetSummaryOutput struct {
	Totals        *SummaryTotals     `json:"totals"`
	RecentEntries []ledger.EntryView `json:"recent_entries"`
	Trends        []TrendPoint       `json:"trends"`
}

// GetSummaryUseCase assembles the dashboard summary from three independent
// sub-queries fanned out concurrently. Each sub-query reads through its own
// cache key, so a hit on one never blocks a recompute of another.
type GetSummaryUseCase struct {
	incomes   adapter.Repository[entity.IncomeEntry]
	spendings adapter.Repository[entity.SpendingEntry]
	trends    *GetTrendsUseCase
	cache     adapter.CacheService
	ttl       time.Duration
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	incomes adapter.Repository[entity.IncomeEntry],
	spendings adapter.Repository[entity.SpendingEntry],
	trends *GetTrendsUseCase,
	cache adapter.CacheService,
	ttl time.Duration,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{incomes: incomes, spendings: spendings, trends: trends, cache: cache, ttl: ttl}
}

// Execute fans out the sub-queries and joins their results. When several
// sub-queries fail, the failure reported is the first in declaration order
// (totals, recent entries, trends), regardless of which goroutine finished
// first.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	start, end, err := validateTrendRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	limit := input.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var (
		totals result.Result[*SummaryTotals]
		recent result.Result[[]ledger.EntryView]
		trends result.Result[[]TrendPoint]
	)

	// The goroutines never return an error into the group: a group error
	// cancels the shared context and would let a fast slot's cancellation
	// mask the slower slot that actually failed.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		totals = result.Of(uc.fetchTotals(gctx, start, end))
		return nil
	})
	group.Go(func() error {
		recent = result.Of(uc.fetchRecent(gctx, limit))
		return nil
	})
	group.Go(func() error {
		trends = result.Of(uc.fetchTrends(gctx, start, end))
		return nil
	})
	_ = group.Wait()

	if err := result.First(totals.Err(), recent.Err(), trends.Err()); err != nil {
		return nil, err
	}

	return &GetSummaryOutput{
		Totals:        totals.Value(),
		RecentEntries: recent.Value(),
		Trends:        trends.Value(),
	}, nil
}

func (uc *GetSummaryUseCase) fetchTotals(ctx context.Context, start, end time.Time) (*SummaryTotals, error) {
	key := adapter.DashboardSummaryKey(start, end)
	return adapter.GetOrFetch(ctx, uc.cache, key, uc.ttl, func(ctx context.Context) (*SummaryTotals, error) {
		pred := adapter.DateBetween(start, end)

		totalIncome, err := uc.incomes.Sum(ctx, "amount", pred)
		if err != nil {
			return nil, err
		}
		incomeCount, err := uc.incomes.Count(ctx, pred)
		if err != nil {
			return nil, err
		}
		totalSpending, err := uc.spendings.Sum(ctx, "amount", pred)
		if err != nil {
			return nil, err
		}
		spendingCount, err := uc.spendings.Count(ctx, pred)
		if err != nil {
			return nil, err
		}

		return &SummaryTotals{
			StartDate:     start,
			EndDate:       end,
			TotalIncome:   totalIncome,
			TotalSpending: totalSpending,
			Balance:       totalIncome.Sub(totalSpending),
			IncomeCount:   incomeCount,
			SpendingCount: spendingCount,
		}, nil
	})
}

func (uc *GetSummaryUseCase) fetchRecent(ctx context.Context, limit int) ([]ledger.EntryView, error) {
	key := adapter.DashboardRecentKey(limit)
	return adapter.GetOrFetch(ctx, uc.cache, key, uc.ttl, func(ctx context.Context) ([]ledger.EntryView, error) {
		order := []adapter.SortOrder{
			{Column: "date", Descending: true},
			{Column: "id", Descending: true},
		}

		incomePage, err := uc.incomes.GetPaged(ctx, 1, limit, adapter.Predicate{}, order...)
		if err != nil {
			return nil, err
		}
		spendingPage, err := uc.spendings.GetPaged(ctx, 1, limit, adapter.Predicate{}, order...)
		if err != nil {
			return nil, err
		}

		merged := make([]ledger.EntryView, 0, len(incomePage.Items)+len(spendingPage.Items))
		for _, e := range incomePage.Items {
			merged = append(merged, ledger.IncomeView(e))
		}
		for _, e := range spendingPage.Items {
			merged = append(merged, ledger.SpendingView(e))
		}
		sort.Slice(merged, func(i, j int) bool {
			if !merged[i].Date.Equal(merged[j].Date) {
				return merged[i].Date.After(merged[j].Date)
			}
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		})
		if len(merged) > limit {
			merged = merged[:limit]
		}
		return merged, nil
	})
}

func (uc *GetSummaryUseCase) fetchTrends(ctx context.Context, start, end time.Time) ([]TrendPoint, error) {
	out, err := uc.trends.Execute(ctx, GetTrendsInput{
		StartDate:   start,
		EndDate:     end,
		Granularity: GranularityMonthly,
	})
	if err != nil {
		return nil, err
	}
	return out.Trends, nil
}
