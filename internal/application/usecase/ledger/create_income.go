package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// CreateIncomeInput represents the input for income creation.
type CreateIncomeInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// CreateIncomeOutput represents the output of income creation.
type CreateIncomeOutput struct {
	Entry *entity.IncomeEntry
}

// CreateIncomeUseCase handles income entry creation.
type CreateIncomeUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewCreateIncomeUseCase creates a new CreateIncomeUseCase instance.
func NewCreateIncomeUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *CreateIncomeUseCase {
	return &CreateIncomeUseCase{uow: uow, invalidator: invalidator}
}

// Execute persists the new entry and, after the commit, invalidates the
// cache selectors its date touches.
func (uc *CreateIncomeUseCase) Execute(ctx context.Context, input CreateIncomeInput) (*CreateIncomeOutput, error) {
	entry := entity.NewIncomeEntry(input.Date, input.Amount, input.Description)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var created *entity.IncomeEntry
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		var addErr error
		created, addErr = tx.Incomes().Add(ctx, entry)
		return addErr
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.EntryMutated(ctx, entity.EntryKindIncome, created.Date)

	return &CreateIncomeOutput{Entry: created}, nil
}
