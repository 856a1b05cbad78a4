package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReceiptInstitution holds the organization header printed at the top of a receipt.
type ReceiptInstitution struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ReceiptCashier identifies who rang up the sale.
type ReceiptCashier struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Portion   string          `json:"portion"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ReceiptAccount summarizes the credit account a sale was charged to.
type ReceiptAccount struct {
	Name      string `json:"name"`
	AccountID string `json:"account_id"`
	Type      string `json:"type"`
}

// ReceiptPayment is the payment breakdown at the moment of sale.
type ReceiptPayment struct {
	Type         string          `json:"type"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Account      *ReceiptAccount `json:"account"`
}

// ReceiptPayload is the frozen snapshot of a sale. It is built once and
// never recomputed from live data.
type ReceiptPayload struct {
	Institution   ReceiptInstitution `json:"institution"`
	TransactionID uint               `json:"transaction_id"`
	Token         string             `json:"token"`
	Date          string             `json:"date"`
	Cashier       ReceiptCashier     `json:"cashier"`
	Items         []ReceiptItem      `json:"items"`
	Payment       ReceiptPayment     `json:"payment"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Notes         string             `json:"notes"`
	Footer        string             `json:"footer"`
}

// Receipt is the persisted legal record of a sale, one per transaction.
type Receipt struct {
	ID            uint                               `gorm:"primaryKey" json:"id"`
	TransactionID uint                               `gorm:"not null;uniqueIndex" json:"transaction_id"`
	Token         string                             `gorm:"size:50;not null;uniqueIndex" json:"token"`
	Payload       datatypes.JSONType[ReceiptPayload] `gorm:"not null" json:"payload"`
	CreatedAt     time.Time                          `json:"created_at"`
}

// BeforeUpdate rejects any change to a stored receipt
func (r *Receipt) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// BeforeDelete rejects removal of a stored receipt
func (r *Receipt) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}
