package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// UpdateSpendingInput represents the input for spending updates.
type UpdateSpendingInput struct {
	ID          int64
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CategoryID  int64
}

// UpdateSpendingOutput represents the output of a spending update.
type UpdateSpendingOutput struct {
	Entry *entity.SpendingEntry
}

// UpdateSpendingUseCase handles spending entry updates.
type UpdateSpendingUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewUpdateSpendingUseCase creates a new UpdateSpendingUseCase instance.
func NewUpdateSpendingUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *UpdateSpendingUseCase {
	return &UpdateSpendingUseCase{uow: uow, invalidator: invalidator}
}

// Execute rewrites the entry, re-verifying the category reference when it
// changes. Old and new dates are both invalidated when the date moves.
func (uc *UpdateSpendingUseCase) Execute(ctx context.Context, input UpdateSpendingInput) (*UpdateSpendingOutput, error) {
	entry := entity.NewSpendingEntry(input.Date, input.Amount, input.Description, input.CategoryID)
	entry.ID = input.ID
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var previousDate time.Time
	var updated *entity.SpendingEntry
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		existing, err := tx.Spendings().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		previousDate = existing.Date

		if existing.CategoryID != input.CategoryID {
			category, err := tx.Categories().GetByID(ctx, input.CategoryID)
			if err != nil {
				return err
			}
			if !category.IsActive {
				return domainerror.NewValidation(
					domainerror.ErrCodeCategoryInactive,
					domainerror.ErrCategoryInactive.Error(),
				).WithMeta("category_id", input.CategoryID)
			}
		}

		updated, err = tx.Spendings().Update(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.EntryMutated(ctx, entity.EntryKindSpending, previousDate)
	if !updated.Date.Equal(previousDate) {
		uc.invalidator.EntryMutated(ctx, entity.EntryKindSpending, updated.Date)
	}

	return &UpdateSpendingOutput{Entry: updated}, nil
}
