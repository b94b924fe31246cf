package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// UpdateIncomeInput represents the input for income updates.
type UpdateIncomeInput struct {
	ID          int64
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}

// UpdateIncomeOutput represents the output of an income update.
type UpdateIncomeOutput struct {
	Entry *entity.IncomeEntry
}

// UpdateIncomeUseCase handles income entry updates.
type UpdateIncomeUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewUpdateIncomeUseCase creates a new UpdateIncomeUseCase instance.
func NewUpdateIncomeUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *UpdateIncomeUseCase {
	return &UpdateIncomeUseCase{uow: uow, invalidator: invalidator}
}

// Execute rewrites the entry. When the date moves, selectors overlapping
// either the old or the new date are stale, so both are invalidated.
func (uc *UpdateIncomeUseCase) Execute(ctx context.Context, input UpdateIncomeInput) (*UpdateIncomeOutput, error) {
	entry := entity.NewIncomeEntry(input.Date, input.Amount, input.Description)
	entry.ID = input.ID
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var previousDate time.Time
	var updated *entity.IncomeEntry
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		existing, err := tx.Incomes().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		previousDate = existing.Date

		updated, err = tx.Incomes().Update(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.EntryMutated(ctx, entity.EntryKindIncome, previousDate)
	if !updated.Date.Equal(previousDate) {
		uc.invalidator.EntryMutated(ctx, entity.EntryKindIncome, updated.Date)
	}

	return &UpdateIncomeOutput{Entry: updated}, nil
}
