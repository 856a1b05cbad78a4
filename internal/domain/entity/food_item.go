package entity

import (
	"time"

	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FoodItem is a menu entry sold at the counter
type FoodItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Category      string          `gorm:"size:50" json:"category"`
	PriceFull     decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price_full"`
	PriceHalf     decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price_half"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	StockQuantity *int            `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Recipe *Recipe `gorm:"foreignKey:FoodItemID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

// TableName returns the table name for the FoodItem model
func (FoodItem) TableName() string {
	return "food_items"
}

// PriceFor returns the menu price of the given portion
func (f *FoodItem) PriceFor(portion enum.PortionType) decimal.Decimal {
	if portion == enum.PortionHalf {
		return f.PriceHalf
	}
	return f.PriceFull
}

// StockModel describes how availability of a food item is tracked.
// It is either PreMadeStock or RecipeBased.
type StockModel interface {
	stockModel()
}

// PreMadeStock is a counted item (bottled drinks, packaged snacks).
// Selling it never touches ingredients.
type PreMadeStock struct {
	Quantity int
}

// RecipeBased items are cooked to order and consume ingredients on sale.
type RecipeBased struct{}

func (PreMadeStock) stockModel() {}
func (RecipeBased) stockModel()  {}

// StockModel returns the stock variant of the item
func (f *FoodItem) StockModel() StockModel {
	if f.StockQuantity != nil {
		return PreMadeStock{Quantity: *f.StockQuantity}
	}
	return RecipeBased{}
}
