package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// GetStatisticsInput represents the input for per-kind statistics.
type GetStatisticsInput struct {
	Kind      entity.EntryKind
	StartDate time.Time
	EndDate   time.Time
}

// Statistics carries the aggregates for one kind over an inclusive range.
type Statistics struct {
	Kind      entity.EntryKind `json:"kind"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	Total     decimal.Decimal  `json:"total"`
	Count     int64            `json:"count"`
	Average   decimal.Decimal  `json:"average"`
	Largest   decimal.Decimal  `json:"largest"`
	Smallest  decimal.Decimal  `json:"smallest"`
}

// GetStatisticsOutput represents the output of a statistics query.
type GetStatisticsOutput struct {
	Statistics *Statistics
}

// GetStatisticsUseCase computes per-kind aggregates through the cache.
type GetStatisticsUseCase struct {
	incomes   adapter.Repository[entity.IncomeEntry]
	spendings adapter.Repository[entity.SpendingEntry]
	cache     adapter.CacheService
	ttl       time.Duration
}

// NewGetStatisticsUseCase creates a new GetStatisticsUseCase instance.
func NewGetStatisticsUseCase(
	incomes adapter.Repository[entity.IncomeEntry],
	spendings adapter.Repository[entity.SpendingEntry],
	cache adapter.CacheService,
	ttl time.Duration,
) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{incomes: incomes, spendings: spendings, cache: cache, ttl: ttl}
}

// Execute probes the stats selector and recomputes on a miss.
func (uc *GetStatisticsUseCase) Execute(ctx context.Context, input GetStatisticsInput) (*GetStatisticsOutput, error) {
	if err := validateKind(input.Kind); err != nil {
		return nil, err
	}
	start, end, err := validateDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	key := adapter.StatsRangeKey(input.Kind, start, end)
	stats, err := adapter.GetOrFetch(ctx, uc.cache, key, uc.ttl, func(ctx context.Context) (*Statistics, error) {
		return uc.compute(ctx, input.Kind, start, end)
	})
	if err != nil {
		return nil, err
	}

	return &GetStatisticsOutput{Statistics: stats}, nil
}

func (uc *GetStatisticsUseCase) compute(ctx context.Context, kind entity.EntryKind, start, end time.Time) (*Statistics, error) {
	pred := adapter.DateBetween(start, end)

	var (
		total, largest, smallest decimal.Decimal
		count                    int64
		err                      error
	)
	if kind == entity.EntryKindIncome {
		total, count, largest, smallest, err = aggregateAll(ctx, uc.incomes, pred)
	} else {
		total, count, largest, smallest, err = aggregateAll(ctx, uc.spendings, pred)
	}
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if count > 0 {
		average = total.Div(decimal.NewFromInt(count)).Round(2)
	}

	return &Statistics{
		Kind:      kind,
		StartDate: start,
		EndDate:   end,
		Total:     total,
		Count:     count,
		Average:   average,
		Largest:   largest,
		Smallest:  smallest,
	}, nil
}

func aggregateAll[E any](ctx context.Context, repo adapter.Repository[E], pred adapter.Predicate) (total decimal.Decimal, count int64, largest, smallest decimal.Decimal, err error) {
	if total, err = repo.Sum(ctx, "amount", pred); err != nil {
		return
	}
	if count, err = repo.Count(ctx, pred); err != nil {
		return
	}
	if largest, err = repo.Max(ctx, "amount", pred); err != nil {
		return
	}
	smallest, err = repo.Min(ctx, "amount", pred)
	return
}
