package ledger

import (
	"context"
	"time"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// BulkDeleteEntriesInput represents the input for a range delete. Both bounds
// are inclusive.
type BulkDeleteEntriesInput struct {
	Kind      entity.EntryKind
	StartDate time.Time
	EndDate   time.Time
}

// BulkDeleteEntriesOutput carries the number of removed entries.
type BulkDeleteEntriesOutput struct {
	DeletedCount int64
}

// BulkDeleteEntriesUseCase removes every entry of a kind within a date range.
type BulkDeleteEntriesUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewBulkDeleteEntriesUseCase creates a new BulkDeleteEntriesUseCase instance.
func NewBulkDeleteEntriesUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *BulkDeleteEntriesUseCase {
	return &BulkDeleteEntriesUseCase{uow: uow, invalidator: invalidator}
}

// Execute deletes the range atomically. A range mutation makes per-key
// invalidation impractical, so the whole kind is cleared afterwards.
func (uc *BulkDeleteEntriesUseCase) Execute(ctx context.Context, input BulkDeleteEntriesInput) (*BulkDeleteEntriesOutput, error) {
	if err := validateKind(input.Kind); err != nil {
		return nil, err
	}
	start, end, err := validateDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	var deleted int64
	err = uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		pred := adapter.DateBetween(start, end)
		var delErr error
		switch input.Kind {
		case entity.EntryKindIncome:
			deleted, delErr = tx.Incomes().DeleteRange(ctx, pred)
		default:
			deleted, delErr = tx.Spendings().DeleteRange(ctx, pred)
		}
		return delErr
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.RangeMutated(ctx, input.Kind)

	return &BulkDeleteEntriesOutput{DeletedCount: deleted}, nil
}
