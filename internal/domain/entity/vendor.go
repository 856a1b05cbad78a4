package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Vendor represents a supplier. A positive balance is what we owe them.
type Vendor struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	ContactName string          `gorm:"size:255" json:"contact_name"`
	Phone       string          `gorm:"size:50" json:"phone"`
	Email       string          `gorm:"size:255" json:"email"`
	Address     string          `gorm:"type:text" json:"address"`
	Notes       string          `gorm:"type:text" json:"notes"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	Balance     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName returns the table name for the Vendor model
func (Vendor) TableName() string {
	return "vendors"
}

// VendorTransaction records a change in what we owe a vendor
type VendorTransaction struct {
	ID              uint                       `gorm:"primaryKey" json:"id"`
	VendorID        uint                       `gorm:"not null;index" json:"vendor_id"`
	TransactionType enum.VendorTransactionType `gorm:"size:10;not null" json:"transaction_type"`
	Amount          decimal.Decimal            `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reference       string                     `gorm:"size:100" json:"reference"`
	BalanceAfter    decimal.Decimal            `gorm:"type:numeric(12,2);not null" json:"balance_after"`
	Notes           string                     `gorm:"type:text" json:"notes"`
	CreatedByID     *uuid.UUID                 `gorm:"type:uuid" json:"created_by,omitempty"`
	Date            time.Time                  `gorm:"not null;index" json:"date"`

	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:RESTRICT" json:"vendor,omitempty"`
}

// BeforeCreate stamps the transaction date
func (v *VendorTransaction) BeforeCreate(tx *gorm.DB) error {
	if v.Date.IsZero() {
		v.Date = time.Now()
	}
	return nil
}

// TableName returns the table name for the VendorTransaction model
func (VendorTransaction) TableName() string {
	return "vendor_transactions"
}
