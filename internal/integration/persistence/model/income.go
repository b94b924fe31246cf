// Package model defines database models for the persistence layer.
package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-keeper/backend/internal/domain/entity"
)

// IncomeModel represents the income table.
type IncomeModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the IncomeModel.
func (IncomeModel) TableName() string {
	return "income"
}

// PrimaryKey returns the model's store-assigned identity.
func (m *IncomeModel) PrimaryKey() int64 {
	return m.ID
}

// ToEntity converts an IncomeModel to a domain IncomeEntry.
func (m *IncomeModel) ToEntity() *entity.IncomeEntry {
	return &entity.IncomeEntry{
		ID:          m.ID,
		Date:        entity.NormalizeDate(m.Date),
		Amount:      m.Amount,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// IncomeFromEntity creates an IncomeModel from a domain IncomeEntry.
func IncomeFromEntity(e *entity.IncomeEntry) *IncomeModel {
	return &IncomeModel{
		ID:          e.ID,
		Date:        entity.NormalizeDate(e.Date),
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
