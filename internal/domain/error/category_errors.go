package error

import "errors"

// Category sentinel errors.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameTaken is returned when a category name already exists.
	ErrCategoryNameTaken = errors.New("category name already exists")

	// ErrCategoryNameEmpty is returned when a category name is empty.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")

	// ErrCategoryInactive is returned when a spending entry references an
	// inactive category.
	ErrCategoryInactive = errors.New("category is inactive")

	// ErrCategoryNameTooLong is returned when a category name exceeds the
	// maximum length.
	ErrCategoryNameTooLong = errors.New("category name too long")
)

// Category error codes.
const (
	ErrCodeCategoryNameEmpty   = "CAT-010001"
	ErrCodeCategoryNameTaken   = "CAT-010002"
	ErrCodeCategoryInactive    = "CAT-010003"
	ErrCodeCategoryNameTooLong = "CAT-010004"

	ErrCodeCategoryNotFound = "CAT-020001"
)
