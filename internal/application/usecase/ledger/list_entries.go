package ledger

import (
	"context"
	"time"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// ListEntriesInput represents the input for a paged read.
type ListEntriesInput struct {
	Kind       entity.EntryKind
	PageNumber int
	PageSize   int
	Descending bool
}

// ListEntriesOutput represents one page of entries.
type ListEntriesOutput struct {
	Page *adapter.PagedResult[EntryView]
}

// ListEntriesUseCase reads one page of entries through the cache.
type ListEntriesUseCase struct {
	incomes   adapter.Repository[entity.IncomeEntry]
	spendings adapter.Repository[entity.SpendingEntry]
	cache     adapter.CacheService
	ttl       time.Duration
}

// NewListEntriesUseCase creates a new ListEntriesUseCase instance.
func NewListEntriesUseCase(
	incomes adapter.Repository[entity.IncomeEntry],
	spendings adapter.Repository[entity.SpendingEntry],
	cache adapter.CacheService,
	ttl time.Duration,
) *ListEntriesUseCase {
	return &ListEntriesUseCase{incomes: incomes, spendings: spendings, cache: cache, ttl: ttl}
}

// Execute returns the requested page ordered by date. Pages past the end are
// empty successes carrying the true total count.
func (uc *ListEntriesUseCase) Execute(ctx context.Context, input ListEntriesInput) (*ListEntriesOutput, error) {
	if err := validateKind(input.Kind); err != nil {
		return nil, err
	}

	key := adapter.EntryPageKey(input.Kind, input.PageNumber, input.PageSize, input.Descending)
	page, err := adapter.GetOrFetch(ctx, uc.cache, key, uc.ttl, func(ctx context.Context) (*adapter.PagedResult[EntryView], error) {
		return uc.fetch(ctx, input)
	})
	if err != nil {
		return nil, err
	}

	return &ListEntriesOutput{Page: page}, nil
}

func (uc *ListEntriesUseCase) fetch(ctx context.Context, input ListEntriesInput) (*adapter.PagedResult[EntryView], error) {
	order := []adapter.SortOrder{
		{Column: "date", Descending: input.Descending},
		{Column: "id", Descending: input.Descending},
	}

	if input.Kind == entity.EntryKindIncome {
		page, err := uc.incomes.GetPaged(ctx, input.PageNumber, input.PageSize, adapter.Predicate{}, order...)
		if err != nil {
			return nil, err
		}
		return mapPage(page, IncomeView), nil
	}

	page, err := uc.spendings.GetPaged(ctx, input.PageNumber, input.PageSize, adapter.Predicate{}, order...)
	if err != nil {
		return nil, err
	}
	return mapPage(page, SpendingView), nil
}

func mapPage[E any](page *adapter.PagedResult[*E], view func(*E) EntryView) *adapter.PagedResult[EntryView] {
	items := make([]EntryView, len(page.Items))
	for i, e := range page.Items {
		items[i] = view(e)
	}
	return &adapter.PagedResult[EntryView]{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
