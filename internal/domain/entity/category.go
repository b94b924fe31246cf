package entity

import (
	"time"

	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// Category groups spending entries. Names are unique at the store; a category
// referenced by any spending entry can only be deactivated, never hard-deleted.
type Category struct {
	ID           int64
	Name         string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCategory creates an active Category.
func NewCategory(name string, displayOrder int) *Category {
	return &Category{
		Name:         name,
		DisplayOrder: displayOrder,
		IsActive:     true,
	}
}

// Validate checks the category invariants.
func (c *Category) Validate() error {
	if c.Name == "" {
		return domainerror.NewValidation(
			domainerror.ErrCodeCategoryNameEmpty,
			domainerror.ErrCategoryNameEmpty.Error(),
		)
	}
	return nil
}
