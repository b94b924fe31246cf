// Package category contains category-related use cases.
package category

import (
	"context"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	IncludeInactive bool
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*entity.Category
}

// ListCategoriesUseCase handles category listing logic.
type ListCategoriesUseCase struct {
	categories adapter.Repository[entity.Category]
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categories adapter.Repository[entity.Category]) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categories: categories}
}

// Execute returns categories ordered by display order, then name.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	predicate := adapter.Predicate{}
	if !input.IncludeInactive {
		predicate = adapter.Where("is_active = ?", true)
	}

	categories, err := uc.categories.Find(ctx, predicate,
		adapter.SortOrder{Column: "display_order"},
		adapter.SortOrder{Column: "name"},
	)
	if err != nil {
		return nil, err
	}

	return &ListCategoriesOutput{Categories: categories}, nil
}
