package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// SpendingModel represents the spending table.
type SpendingModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	CategoryID  int64           `gorm:"not null;index"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the SpendingModel.
func (SpendingModel) TableName() string {
	return "spending"
}

// PrimaryKey returns the model's store-assigned identity.
func (m *SpendingModel) PrimaryKey() int64 {
	return m.ID
}

// ToEntity converts a SpendingModel to a domain SpendingEntry.
func (m *SpendingModel) ToEntity() *entity.SpendingEntry {
	return &entity.SpendingEntry{
		ID:          m.ID,
		Date:        entity.NormalizeDate(m.Date),
		Amount:      m.Amount,
		Description: m.Description,
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SpendingFromEntity creates a SpendingModel from a domain SpendingEntry.
func SpendingFromEntity(e *entity.SpendingEntry) *SpendingModel {
	return &SpendingModel{
		ID:          e.ID,
		Date:        entity.NormalizeDate(e.Date),
		Amount:      e.Amount,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
