package ledger

import (
	"context"
	"time"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// GetByDateRangeInput represents the input for a date-ranged read. Bounds are
// inclusive.
type GetByDateRangeInput struct {
	Kind      entity.EntryKind
	StartDate time.Time
	EndDate   time.Time
}

// GetByDateRangeOutput represents the output of a date-ranged read.
type GetByDateRangeOutput struct {
	Entries []EntryView
}

// GetByDateRangeUseCase reads entries of one kind through the cache.
type GetByDateRangeUseCase struct {
	incomes   adapter.Repository[entity.IncomeEntry]
	spendings adapter.Repository[entity.SpendingEntry]
	cache     adapter.CacheService
	ttl       time.Duration
}

// NewGetByDateRangeUseCase creates a new GetByDateRangeUseCase instance.
func NewGetByDateRangeUseCase(
	incomes adapter.Repository[entity.IncomeEntry],
	spendings adapter.Repository[entity.SpendingEntry],
	cache adapter.CacheService,
	ttl time.Duration,
) *GetByDateRangeUseCase {
	return &GetByDateRangeUseCase{incomes: incomes, spendings: spendings, cache: cache, ttl: ttl}
}

// Execute probes the range selector and reads through to the store on a miss.
func (uc *GetByDateRangeUseCase) Execute(ctx context.Context, input GetByDateRangeInput) (*GetByDateRangeOutput, error) {
	if err := validateKind(input.Kind); err != nil {
		return nil, err
	}
	start, end, err := validateDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	key := adapter.EntryRangeKey(input.Kind, start, end)
	views, err := adapter.GetOrFetch(ctx, uc.cache, key, uc.ttl, func(ctx context.Context) ([]EntryView, error) {
		return uc.fetch(ctx, input.Kind, start, end)
	})
	if err != nil {
		return nil, err
	}

	return &GetByDateRangeOutput{Entries: views}, nil
}

func (uc *GetByDateRangeUseCase) fetch(ctx context.Context, kind entity.EntryKind, start, end time.Time) ([]EntryView, error) {
	pred := adapter.DateBetween(start, end)
	order := []adapter.SortOrder{{Column: "date"}, {Column: "id"}}

	if kind == entity.EntryKindIncome {
		entries, err := uc.incomes.Find(ctx, pred, order...)
		if err != nil {
			return nil, err
		}
		views := make([]EntryView, len(entries))
		for i, e := range entries {
			views[i] = IncomeView(e)
		}
		return views, nil
	}

	entries, err := uc.spendings.Find(ctx, pred, order...)
	if err != nil {
		return nil, err
	}
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = SpendingView(e)
	}
	return views, nil
}
