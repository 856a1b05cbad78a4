package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is an order of ingredients from a vendor
type PurchaseOrder struct {
	ID            uint                       `gorm:"primaryKey" json:"id"`
	VendorID      *uint                      `gorm:"index" json:"vendor_id,omitempty"`
	PaymentMethod enum.PurchasePaymentMethod `gorm:"size:10;not null;default:'CREDIT'" json:"payment_method"`
	Status        enum.PurchaseOrderStatus   `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	TotalAmount   decimal.Decimal            `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Notes         string                     `gorm:"type:text" json:"notes"`
	CreatedByID   *uuid.UUID                 `gorm:"type:uuid" json:"created_by,omitempty"`
	ReceivedAt    *time.Time                 `json:"received_at,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`

	// Relationships
	Vendor *Vendor             `gorm:"foreignKey:VendorID;constraint:OnDelete:SET NULL" json:"vendor,omitempty"`
	Items  []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName returns the table name for the PurchaseOrder model
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem is one ingredient line of a purchase order
type PurchaseOrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PurchaseOrderID  uint            `gorm:"not null;index" json:"purchase_order_id"`
	IngredientID     uint            `gorm:"not null;index" json:"ingredient_id"`
	Quantity         decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	ReceivedQuantity decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"received_quantity"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
}

// TableName returns the table name for the PurchaseOrderItem model
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// QuantityToReceive is the received quantity when one was recorded,
// otherwise the ordered quantity.
func (i *PurchaseOrderItem) QuantityToReceive() decimal.Decimal {
	if i.ReceivedQuantity.IsPositive() {
		return i.ReceivedQuantity
	}
	return i.Quantity
}
