package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the header of a completed sale
type Transaction struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Timestamp        time.Time        `gorm:"not null;index" json:"timestamp"`
	CashierID        *uuid.UUID       `gorm:"type:uuid;index" json:"cashier_id,omitempty"`
	PaymentType      enum.PaymentType `gorm:"size:20;not null" json:"payment_type"`
	TotalAmount      decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Tax              decimal.Decimal  `gorm:"type:numeric(8,2);not null" json:"tax"`
	Discount         decimal.Decimal  `gorm:"type:numeric(8,2);not null" json:"discount"`
	PaymentReference string           `gorm:"size:255" json:"payment_reference"`
	CreditAccountID  *uint            `gorm:"index" json:"credit_account_id,omitempty"`
	Notes            string           `gorm:"type:text" json:"notes"`
	IsCanceled       bool             `gorm:"not null;default:false" json:"is_canceled"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Relationships
	Cashier       *User             `gorm:"foreignKey:CashierID;constraint:OnDelete:SET NULL" json:"cashier,omitempty"`
	CreditAccount *CreditAccount    `gorm:"foreignKey:CreditAccountID;constraint:OnDelete:SET NULL" json:"-"`
	Lines         []TransactionLine `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
	Receipt       *Receipt          `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"receipt,omitempty"`
}

// BeforeCreate stamps the sale time
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// LinesTotal sums the line totals of the loaded lines
func (t *Transaction) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.Lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// TransactionLine is one sold menu item within a transaction.
// StockDeducted is the number of pre-made units actually taken off the
// counter, which is less than Quantity when the sale ran the counter dry.
type TransactionLine struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	TransactionID uint             `gorm:"not null;index" json:"transaction_id"`
	FoodItemID    uint             `gorm:"not null;index" json:"food_item_id"`
	PortionType   enum.PortionType `gorm:"size:10;not null" json:"portion_type"`
	UnitPrice     decimal.Decimal  `gorm:"type:numeric(8,2);not null" json:"unit_price"`
	Quantity      int              `gorm:"not null" json:"quantity"`
	LineTotal     decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"line_total"`
	StockDeducted int              `gorm:"not null;default:0" json:"stock_deducted"`
	CreatedAt     time.Time        `json:"created_at"`

	// Relationships
	FoodItem *FoodItem `gorm:"foreignKey:FoodItemID;constraint:OnDelete:RESTRICT" json:"food_item,omitempty"`
}

// BeforeSave computes the line total from price and quantity
func (l *TransactionLine) BeforeSave(tx *gorm.DB) error {
	l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return nil
}

// BeforeUpdate rejects edits, lines are fixed once written
func (l *TransactionLine) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// TableName returns the table name for the TransactionLine model
func (TransactionLine) TableName() string {
	return "transaction_lines"
}
