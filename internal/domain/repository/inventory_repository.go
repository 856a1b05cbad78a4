package repository

import (
	"context"
	"time"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// FoodItemRepository defines the interface for menu item stock operations
type FoodItemRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.FoodItem, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.FoodItem, error)
	// LockByIDs locks the given items in ascending id order
	LockByIDs(ctx context.Context, ids []uint) ([]entity.FoodItem, error)
	UpdateStock(ctx context.Context, id uint, stockQuantity *int, isActive bool) error
	// GetRecipe returns the recipe of a food item with its ingredient lines, nil if none
	GetRecipe(ctx context.Context, foodItemID uint) (*entity.Recipe, error)
	GetRecipes(ctx context.Context, foodItemIDs []uint) ([]entity.Recipe, error)
}

// IngredientRepository defines the interface for ingredient stock operations
type IngredientRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Ingredient, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.Ingredient, error)
	// GetByIDForUpdateUnscoped also finds soft-deleted ingredients, so stock
	// taken by a sale can still be returned after the ingredient is removed
	GetByIDForUpdateUnscoped(ctx context.Context, id uint) (*entity.Ingredient, error)
	// LockByIDs locks the given ingredients in ascending id order, including
	// soft-deleted rows
	LockByIDs(ctx context.Context, ids []uint) ([]entity.Ingredient, error)
	UpdateQuantity(ctx context.Context, id uint, quantity decimal.Decimal) error
	ListLowStock(ctx context.Context) ([]entity.Ingredient, error)
}

// StockMovementRepository defines the interface for the stock movement log
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByIngredient(ctx context.Context, ingredientID uint, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error)
}

// PurchaseOrderRepository defines the interface for purchase order operations
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetWithItemsForUpdate locks the order header and loads its items
	GetWithItemsForUpdate(ctx context.Context, id uint) (*entity.PurchaseOrder, error)
	MarkReceived(ctx context.Context, id uint, total decimal.Decimal, receivedAt time.Time) error
}
