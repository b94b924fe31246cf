package ledger

import (
	"context"
	"time"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// DeleteEntryInput represents the input for deleting a single entry.
type DeleteEntryInput struct {
	Kind entity.EntryKind
	ID   int64
}

// DeleteEntryUseCase handles deletion of a single income or spending entry.
type DeleteEntryUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewDeleteEntryUseCase creates a new DeleteEntryUseCase instance.
func NewDeleteEntryUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{uow: uow, invalidator: invalidator}
}

// Execute removes the entry and invalidates the selectors its date touches.
func (uc *DeleteEntryUseCase) Execute(ctx context.Context, input DeleteEntryInput) error {
	if err := validateKind(input.Kind); err != nil {
		return err
	}

	var date time.Time
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		switch input.Kind {
		case entity.EntryKindIncome:
			existing, err := tx.Incomes().GetByID(ctx, input.ID)
			if err != nil {
				return err
			}
			date = existing.Date
			return tx.Incomes().Delete(ctx, input.ID)
		default:
			existing, err := tx.Spendings().GetByID(ctx, input.ID)
			if err != nil {
				return err
			}
			date = existing.Date
			return tx.Spendings().Delete(ctx, input.ID)
		}
	})
	if err != nil {
		return err
	}

	uc.invalidator.EntryMutated(ctx, input.Kind, date)
	return nil
}
