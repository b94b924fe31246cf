package dto

import (
	"time"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=50"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateCategoryRequest represents the request body for category update.
// Absent fields are left unchanged.
type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// DeleteCategoryResponse reports whether the category was removed or merely
// deactivated because spending entries still reference it.
type DeleteCategoryResponse struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

// ToCategoryResponse converts a domain Category entity to a response DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:           cat.ID,
		Name:         cat.Name,
		DisplayOrder: cat.DisplayOrder,
		IsActive:     cat.IsActive,
		CreatedAt:    cat.CreatedAt,
		UpdatedAt:    cat.UpdatedAt,
	}
}

// ToCategoryListResponse converts a list of categories.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	out := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		out[i] = ToCategoryResponse(cat)
	}
	return CategoryListResponse{Categories: out}
}
