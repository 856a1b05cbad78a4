package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashBookEntry is one line of the append-only cash ledger. Corrections
// are new offsetting entries, never edits.
type CashBookEntry struct {
	ID                   uint                   `gorm:"primaryKey" json:"id"`
	Date                 time.Time              `gorm:"not null;index" json:"date"`
	EntryType            enum.CashBookEntryType `gorm:"size:10;not null" json:"entry_type"`
	Amount               decimal.Decimal        `gorm:"type:numeric(10,2);not null" json:"amount"`
	Description          string                 `gorm:"type:text" json:"description"`
	RelatedTransactionID *uint                  `gorm:"index" json:"related_transaction_id,omitempty"`
	CreatedByID          *uuid.UUID             `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
}

// BeforeCreate stamps the entry date
func (e *CashBookEntry) BeforeCreate(tx *gorm.DB) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return nil
}

func (e *CashBookEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (e *CashBookEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// TableName returns the table name for the CashBookEntry model
func (CashBookEntry) TableName() string {
	return "cash_book_entries"
}

// Expense is a paid-out cost of running the canteen
type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Category    string          `gorm:"size:100" json:"category"`
	PaidBy      string          `gorm:"size:50;not null;default:'cash'" json:"paid_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate stamps the expense date
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
