package ledger

import (
	"context"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// GetEntryInput represents the input for a single-entry read.
type GetEntryInput struct {
	Kind entity.EntryKind
	ID   int64
}

// GetEntryOutput represents the output of a single-entry read.
type GetEntryOutput struct {
	Entry EntryView
}

// GetEntryUseCase reads one entry by identity. Identity reads hit the store
// directly: the key scheme carries no single-entry selector, so caching them
// would leave the invalidator nothing to invalidate them by.
type GetEntryUseCase struct {
	incomes   adapter.Repository[entity.IncomeEntry]
	spendings adapter.Repository[entity.SpendingEntry]
}

// NewGetEntryUseCase creates a new GetEntryUseCase instance.
func NewGetEntryUseCase(
	incomes adapter.Repository[entity.IncomeEntry],
	spendings adapter.Repository[entity.SpendingEntry],
) *GetEntryUseCase {
	return &GetEntryUseCase{incomes: incomes, spendings: spendings}
}

// Execute returns the entry or the store's NotFound classification.
func (uc *GetEntryUseCase) Execute(ctx context.Context, input GetEntryInput) (*GetEntryOutput, error) {
	if err := validateKind(input.Kind); err != nil {
		return nil, err
	}

	if input.Kind == entity.EntryKindIncome {
		entry, err := uc.incomes.GetByID(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		return &GetEntryOutput{Entry: IncomeView(entry)}, nil
	}

	entry, err := uc.spendings.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetEntryOutput{Entry: SpendingView(entry)}, nil
}
