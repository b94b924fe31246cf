// Package category contains category-related use cases.
package category

import (
	"context"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = 50

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name         string
	DisplayOrder int
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	uow adapter.UnitOfWork
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(uow adapter.UnitOfWork) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{uow: uow}
}

// Execute creates the category. The uniqueness check and the insert share one
// transaction; the store's unique index backs the check up.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	category := entity.NewCategory(input.Name, input.DisplayOrder)

	var created *entity.Category
	err := uc.uow.Execute(ctx, func(tx adapter.Tx) error {
		taken, err := tx.Categories().Exists(ctx, adapter.Where("name = ?", input.Name))
		if err != nil {
			return err
		}
		if taken {
			return nameTakenError(input.Name)
		}

		created, err = tx.Categories().Add(ctx, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &CreateCategoryOutput{Category: created}, nil
}

func validateName(name string) error {
	if name == "" {
		return domainerror.NewValidation(
			domainerror.ErrCodeCategoryNameEmpty,
			domainerror.ErrCategoryNameEmpty.Error(),
		)
	}
	if len(name) > MaxCategoryNameLength {
		return domainerror.NewValidation(
			domainerror.ErrCodeCategoryNameTooLong,
			domainerror.ErrCategoryNameTooLong.Error(),
		).WithMeta("max_length", MaxCategoryNameLength)
	}
	return nil
}

func nameTakenError(name string) error {
	return domainerror.NewValidation(
		domainerror.ErrCodeCategoryNameTaken,
		domainerror.ErrCategoryNameTaken.Error(),
	).WithMeta("name", name)
}
