package category

import (
	"context"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// UpdateCategoryInput represents the input for category updates. Nil fields
// are left unchanged.
type UpdateCategoryInput struct {
	ID           int64
	Name         *string
	DisplayOrder *int
	IsActive     *bool
}

// UpdateCategoryOutput represents the output of a category update.
type UpdateCategoryOutput struct {
	Category *entity.Category
}

// UpdateCategoryUseCase handles category updates, including deactivation.
type UpdateCategoryUseCase struct {
	uow         adapter.UnitOfWork
	invalidator adapter.LedgerCacheInvalidator
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(uow adapter.UnitOfWork, invalidator adapter.LedgerCacheInvalidator) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{uow: uow, invalidator: invalidator}
}

// Execute applies the requested changes. Category changes alter how cached
// aggregates render, so the dashboard keys are cleared after the commit.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
	}

	var updated *entity.Category
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		category, err := tx.Categories().GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.Name != nil && *input.Name != category.Name {
			taken, err := tx.Categories().Exists(ctx, adapter.Where("name = ? AND id <> ?", *input.Name, input.ID))
			if err != nil {
				return err
			}
			if taken {
				return nameTakenError(*input.Name)
			}
			category.Name = *input.Name
		}
		if input.DisplayOrder != nil {
			category.DisplayOrder = *input.DisplayOrder
		}
		if input.IsActive != nil {
			category.IsActive = *input.IsActive
		}

		updated, err = tx.Categories().Update(ctx, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.DashboardsMutated(ctx)

	return &UpdateCategoryOutput{Category: updated}, nil
}
