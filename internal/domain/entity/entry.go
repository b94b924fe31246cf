// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"

	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// EntryKind identifies the two ledger entry kinds.
type EntryKind string

const (
	EntryKindIncome   EntryKind = "income"
	EntryKindSpending EntryKind = "spending"
)

// IsValid reports whether k is a known entry kind.
func (k EntryKind) IsValid() bool {
	return k == EntryKindIncome || k == EntryKindSpending
}

// IncomeEntry represents a single income record in the ledger.
// Identity and timestamps are assigned by the store on creation.
type IncomeEntry struct {
	ID          int64
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewIncomeEntry creates an IncomeEntry with a normalized date.
func NewIncomeEntry(date time.Time, amount decimal.Decimal, description string) *IncomeEntry {
	return &IncomeEntry{
		Date:        NormalizeDate(date),
		Amount:      amount,
		Description: description,
	}
}

// Validate checks the entry invariants: positive amount, non-empty
// description, a present date.
func (e *IncomeEntry) Validate() error {
	return validateEntryFields(e.Date, e.Amount, e.Description)
}

// SpendingEntry represents a single categorized spending record.
type SpendingEntry struct {
	ID          int64
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	CategoryID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSpendingEntry creates a SpendingEntry with a normalized date.
func NewSpendingEntry(date time.Time, amount decimal.Decimal, description string, categoryID int64) *SpendingEntry {
	return &SpendingEntry{
		Date:        NormalizeDate(date),
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
	}
}

// Validate checks the entry invariants, including the category reference.
func (e *SpendingEntry) Validate() error {
	if err := validateEntryFields(e.Date, e.Amount, e.Description); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return domainerror.NewValidation(
			domainerror.ErrCodeCategoryNotFound,
			"spending entry requires a category",
		)
	}
	return nil
}

// NormalizeDate truncates t to a calendar date in UTC. Entry dates are stored
// as dates, not instants, so they carry no timezone ambiguity.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateEntryFields(date time.Time, amount decimal.Decimal, description string) error {
	if date.IsZero() {
		return domainerror.NewValidation(
			domainerror.ErrCodeInvalidDate,
			domainerror.ErrInvalidDate.Error(),
		)
	}
	if !amount.IsPositive() {
		return domainerror.NewValidation(
			domainerror.ErrCodeInvalidAmount,
			domainerror.ErrInvalidAmount.Error(),
		).WithMeta("amount", amount.String())
	}
	if description == "" {
		return domainerror.NewValidation(
			domainerror.ErrCodeEmptyDescription,
			domainerror.ErrEmptyDescription.Error(),
		)
	}
	return nil
}
