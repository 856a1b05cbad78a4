package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	domainRepo "github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type foodItemRepository struct {
	db *gorm.DB
}

// NewFoodItemRepository creates a new food item repository
func NewFoodItemRepository(db *gorm.DB) domainRepo.FoodItemRepository {
	return &foodItemRepository{db: db}
}

func (r *foodItemRepository) GetByID(ctx context.Context, id uint) (*entity.FoodItem, error) {
	var item entity.FoodItem
	err := conn(ctx, r.db).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *foodItemRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entity.FoodItem, error) {
	var item entity.FoodItem
	err := conn(ctx, r.db).Clauses(forUpdate).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *foodItemRepository) LockByIDs(ctx context.Context, ids []uint) ([]entity.FoodItem, error) {
	var items []entity.FoodItem
	if len(ids) == 0 {
		return items, nil
	}
	err := conn(ctx, r.db).Clauses(forUpdate).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *foodItemRepository) UpdateStock(ctx context.Context, id uint, stockQuantity *int, isActive bool) error {
	return conn(ctx, r.db).Model(&entity.FoodItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": stockQuantity,
			"is_active":      isActive,
		}).Error
}

func (r *foodItemRepository) GetRecipe(ctx context.Context, foodItemID uint) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := conn(ctx, r.db).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_id ASC")
		}).
		Preload("Ingredients.Ingredient", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Where("food_item_id = ?", foodItemID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &recipe, err
}

func (r *foodItemRepository) GetRecipes(ctx context.Context, foodItemIDs []uint) ([]entity.Recipe, error) {
	var recipes []entity.Recipe
	if len(foodItemIDs) == 0 {
		return recipes, nil
	}
	err := conn(ctx, r.db).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_id ASC")
		}).
		Where("food_item_id IN ?", foodItemIDs).
		Find(&recipes).Error
	return recipes, err
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) domainRepo.IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uint) (*entity.Ingredient, error) {
	var ingredient entity.Ingredient
	err := conn(ctx, r.db).First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ingredient, err
}

func (r *ingredientRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Ingredient, error) {
	var ingredient entity.Ingredient
	err := conn(ctx, r.db).Clauses(forUpdate).First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ingredient, err
}

func (r *ingredientRepository) GetByIDForUpdateUnscoped(ctx context.Context, id uint) (*entity.Ingredient, error) {
	var ingredient entity.Ingredient
	err := conn(ctx, r.db).Unscoped().Clauses(forUpdate).First(&ingredient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ingredient, err
}

func (r *ingredientRepository) LockByIDs(ctx context.Context, ids []uint) ([]entity.Ingredient, error) {
	var ingredients []entity.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := conn(ctx, r.db).Unscoped().Clauses(forUpdate).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepository) UpdateQuantity(ctx context.Context, id uint, quantity decimal.Decimal) error {
	return conn(ctx, r.db).Unscoped().Model(&entity.Ingredient{}).
		Where("id = ?", id).
		Update("current_quantity", quantity).Error
}

func (r *ingredientRepository) ListLowStock(ctx context.Context) ([]entity.Ingredient, error) {
	var ingredients []entity.Ingredient
	err := conn(ctx, r.db).
		Where("current_quantity <= reorder_level").
		Order("name ASC").
		Find(&ingredients).Error
	return ingredients, err
}

type stockMovementRepository struct {
	db *gorm.DB
}

// NewStockMovementRepository creates a new stock movement repository
func NewStockMovementRepository(db *gorm.DB) domainRepo.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *entity.StockMovement) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(movement).Error
}

func (r *stockMovementRepository) ListByIngredient(ctx context.Context, ingredientID uint, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := conn(ctx, r.db).Model(&entity.StockMovement{}).Where("ingredient_id = ?", ingredientID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("timestamp DESC").Order("id DESC").
		Find(&movements).Error

	return movements, total, err
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) domainRepo.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	return conn(ctx, r.db).Create(po).Error
}

func (r *purchaseOrderRepository) GetWithItemsForUpdate(ctx context.Context, id uint) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	db := conn(ctx, r.db)
	err := db.Clauses(forUpdate).First(&po, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Where("purchase_order_id = ?", po.ID).Order("id ASC").Find(&po.Items).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) MarkReceived(ctx context.Context, id uint, total decimal.Decimal, receivedAt time.Time) error {
	return conn(ctx, r.db).Model(&entity.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       enum.PurchaseOrderReceived,
			"total_amount": total,
			"received_at":  receivedAt,
		}).Error
}
