// Package ledger contains the command and query use cases for income and
// spending entries.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/domain/entity"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// EntryView is the kind-neutral read model for ledger entries. CategoryID is
// zero for income entries.
type EntryView struct {
	ID          int64           `json:"id"`
	Kind        entity.EntryKind `json:"kind"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IncomeView converts an income entry to the read model.
func IncomeView(e *entity.IncomeEntry) EntryView {
	return EntryView{
		ID:          e.ID,
		Kind:        entity.EntryKindIncome,
		Date:        e.Date,
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// SpendingView converts a spending entry to the read model.
func SpendingView(e *entity.SpendingEntry) EntryView {
	return EntryView{
		ID:          e.ID,
		Kind:        entity.EntryKindSpending,
		Date:        e.Date,
		Amount:      e.Amount,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// validateKind rejects unknown entry kinds.
func validateKind(kind entity.EntryKind) error {
	if !kind.IsValid() {
		return domainerror.NewValidation(
			domainerror.ErrCodeInvalidKind,
			"entry kind must be 'income' or 'spending'",
		).WithMeta("kind", string(kind))
	}
	return nil
}

// validateDateRange normalizes an inclusive date range and rejects empty or
// inverted bounds.
func validateDateRange(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, domainerror.NewValidation(
			domainerror.ErrCodeInvalidDate,
			domainerror.ErrInvalidDate.Error(),
		)
	}
	start = entity.NormalizeDate(start)
	end = entity.NormalizeDate(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, domainerror.NewValidation(
			domainerror.ErrCodeInvalidDateRange,
			domainerror.ErrInvalidDateRange.Error(),
		).WithMeta("start_date", start.Format("2006-01-02")).WithMeta("end_date", end.Format("2006-01-02"))
	}
	return start, end, nil
}
