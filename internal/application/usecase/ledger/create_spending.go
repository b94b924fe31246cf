package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// CreateSpendingInput represents the input for spending creation.
type CreateSpendingInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CategoryID  int64
}

// CreateSpendingOutput represents the output of spending creation.
type CreateSpendingOutput struct {
	Entry *entity.SpendingEntry
}

// CreateSpendingUseCase handles spending entry creation.
type CreateSpendingUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewCreateSpendingUseCase creates a new CreateSpendingUseCase instance.
func NewCreateSpendingUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *CreateSpendingUseCase {
	return &CreateSpendingUseCase{uow: uow, invalidator: invalidator}
}

// Execute verifies the category reference inside the same transaction as the
// insert, so a concurrent category removal cannot leave a dangling reference.
func (uc *CreateSpendingUseCase) Execute(ctx context.Context, input CreateSpendingInput) (*CreateSpendingOutput, error) {
	entry := entity.NewSpendingEntry(input.Date, input.Amount, input.Description, input.CategoryID)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var created *entity.SpendingEntry
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
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

		var addErr error
		created, addErr = tx.Spendings().Add(ctx, entry)
		return addErr
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.EntryMutated(ctx, entity.EntryKindSpending, created.Date)

	return &CreateSpendingOutput{Entry: created}, nil
}
