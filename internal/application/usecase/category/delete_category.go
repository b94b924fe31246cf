package category

import (
	"context"

	"github.com/ledger-keeper/backend/internal/application/adapter"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	ID int64
}

// DeleteCategoryOutput reports what happened to the category. A category
// referenced by spending entries is deactivated instead of removed, so that
// existing entries keep a valid reference.
type DeleteCategoryOutput struct {
	Deleted     bool
	Deactivated bool
}

// DeleteCategoryUseCase handles category deletion logic.
type DeleteCategoryUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{uow: uow, invalidator: invalidator}
}

// Execute deletes the category, or deactivates it when spending entries
// still reference it.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	output := &DeleteCategoryOutput{}
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		category, err := tx.Categories().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		inUse, err := tx.Spendings().Exists(ctx, adapter.Where("category_id = ?", input.ID))
		if err != nil {
			return err
		}
		if inUse {
			category.IsActive = false
			if _, err := tx.Categories().Update(ctx, category); err != nil {
				return err
			}
			output.Deactivated = true
			return nil
		}

		if err := tx.Categories().Delete(ctx, input.ID); err != nil {
			return err
		}
		output.Deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.DashboardsMutated(ctx)

	return output, nil
}
