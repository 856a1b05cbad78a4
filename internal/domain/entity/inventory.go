package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingredient is a raw material kept in the store room
type Ingredient struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Unit            enum.Unit       `gorm:"size:10;not null" json:"unit"`
	CurrentQuantity decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"current_quantity"`
	ReorderLevel    decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"reorder_level"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName returns the table name for the Ingredient model
func (Ingredient) TableName() string {
	return "ingredients"
}

// IsLow reports whether the ingredient has reached its reorder level
func (i *Ingredient) IsLow() bool {
	return i.CurrentQuantity.LessThanOrEqual(i.ReorderLevel)
}

// Recipe links a food item to the ingredients one unit of it consumes
type Recipe struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	FoodItemID  uint               `gorm:"not null;uniqueIndex" json:"food_item_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

// CanProduce reports whether the recipe is complete enough to batch-produce
// stock from, which requires at least two distinct ingredients.
func (r *Recipe) CanProduce() bool {
	seen := make(map[uint]struct{}, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		seen[ri.IngredientID] = struct{}{}
	}
	return len(seen) >= 2
}

// RecipeIngredient is the quantity of one ingredient used per unit produced
type RecipeIngredient struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RecipeID     uint            `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint            `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Quantity     decimal.Decimal `gorm:"type:numeric(10,3);not null" json:"quantity"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
}

// TableName returns the table name for the RecipeIngredient model
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// StockMovement is the write-once log of every ingredient quantity change
type StockMovement struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	IngredientID uint                `gorm:"not null;index" json:"ingredient_id"`
	Quantity     decimal.Decimal     `gorm:"type:numeric(10,3);not null" json:"quantity"`
	MovementType enum.MovementType   `gorm:"size:10;not null" json:"movement_type"`
	Reason       enum.MovementReason `gorm:"size:20;not null" json:"reason"`
	Reference    string              `gorm:"size:100" json:"reference"`
	UserID       *uuid.UUID          `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Timestamp    time.Time           `gorm:"not null;index" json:"timestamp"`
	Notes        string              `gorm:"type:text" json:"notes"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
}

// BeforeCreate stamps the movement time
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

func (m *StockMovement) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableRecord
}

func (m *StockMovement) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableRecord
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
