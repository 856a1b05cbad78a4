package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/sangkips/canteen-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductionReference marks movements caused by batch production
const ProductionReference = "PRODUCTION"

// StockService keeps ingredient and pre-made item stock. Every mutation
// happens under a row lock, and stock never goes below zero.
type StockService struct {
	txManager      repository.TxManager
	foodRepo       repository.FoodItemRepository
	ingredientRepo repository.IngredientRepository
	movementRepo   repository.StockMovementRepository
	purchaseRepo   repository.PurchaseOrderRepository
	ledger         *LedgerService
	audit          AuditRecorder
}

// NewStockService creates a new stock service
func NewStockService(
	txManager repository.TxManager,
	foodRepo repository.FoodItemRepository,
	ingredientRepo repository.IngredientRepository,
	movementRepo repository.StockMovementRepository,
	purchaseRepo repository.PurchaseOrderRepository,
	ledger *LedgerService,
	audit AuditRecorder,
) *StockService {
	return &StockService{
		txManager:      txManager,
		foodRepo:       foodRepo,
		ingredientRepo: ingredientRepo,
		movementRepo:   movementRepo,
		purchaseRepo:   purchaseRepo,
		ledger:         ledger,
		audit:          audit,
	}
}

// LockForSale locks the food items of a sale and then every ingredient their
// recipes use, each set in ascending id order. It must run inside a
// transaction; the per-row locks taken later by Deduct are then already held.
func (s *StockService) LockForSale(ctx context.Context, foodItemIDs []uint) (map[uint]*entity.FoodItem, error) {
	return s.lockSaleRows(ctx, foodItemIDs, true)
}

// LockForReversal is LockForSale for a cancellation. Items removed from the
// menu since the sale are skipped instead of failing.
func (s *StockService) LockForReversal(ctx context.Context, foodItemIDs []uint) (map[uint]*entity.FoodItem, error) {
	return s.lockSaleRows(ctx, foodItemIDs, false)
}

func (s *StockService) lockSaleRows(ctx context.Context, foodItemIDs []uint, requireAll bool) (map[uint]*entity.FoodItem, error) {
	ids := sortedUnique(foodItemIDs)
	items, err := s.foodRepo.LockByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*entity.FoodItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	recipeBased := make([]uint, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			if requireAll {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Food item %d", id))
			}
			continue
		}
		if _, ok := item.StockModel().(entity.RecipeBased); ok {
			recipeBased = append(recipeBased, id)
		}
	}

	recipes, err := s.foodRepo.GetRecipes(ctx, recipeBased)
	if err != nil {
		return nil, err
	}
	var ingredientIDs []uint
	for _, r := range recipes {
		for _, ri := range r.Ingredients {
			ingredientIDs = append(ingredientIDs, ri.IngredientID)
		}
	}
	if _, err := s.ingredientRepo.LockByIDs(ctx, sortedUnique(ingredientIDs)); err != nil {
		return nil, err
	}

	return byID, nil
}

// Deduct removes the stock one sold line consumes. For pre-made items the
// units actually removed are recorded on line.StockDeducted.
func (s *StockService) Deduct(ctx context.Context, tx *entity.Transaction, line *entity.TransactionLine) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.foodRepo.GetByIDForUpdate(ctx, line.FoodItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("Food item %d", line.FoodItemID))
		}

		switch model := item.StockModel().(type) {
		case entity.PreMadeStock:
			// Ingredients were consumed when the batch was produced.
			remaining := model.Quantity - line.Quantity
			if remaining < 0 {
				remaining = 0
			}
			line.StockDeducted = model.Quantity - remaining
			return s.foodRepo.UpdateStock(ctx, item.ID, &remaining, item.IsActive && remaining > 0)

		case entity.RecipeBased:
			recipe, err := s.foodRepo.GetRecipe(ctx, item.ID)
			if err != nil {
				return err
			}
			if recipe == nil {
				return nil
			}

			sold := decimal.NewFromInt(int64(line.Quantity))
			for _, ri := range recipe.Ingredients {
				ingredient, err := s.ingredientRepo.GetByIDForUpdate(ctx, ri.IngredientID)
				if err != nil {
					return err
				}
				if ingredient == nil {
					return apperror.NewNotFoundError(fmt.Sprintf("Ingredient %d", ri.IngredientID))
				}

				required := ri.Quantity.Mul(sold)
				if ingredient.CurrentQuantity.LessThan(required) {
					return apperror.NewInsufficientStockError(ingredient.Name, required, ingredient.CurrentQuantity)
				}

				if err := s.ingredientRepo.UpdateQuantity(ctx, ingredient.ID, ingredient.CurrentQuantity.Sub(required)); err != nil {
					return err
				}
				if err := s.movementRepo.Create(ctx, &entity.StockMovement{
					IngredientID: ingredient.ID,
					Quantity:     required.Neg(),
					MovementType: enum.MovementOut,
					Reason:       enum.ReasonConsumption,
					Reference:    fmt.Sprintf("TX #%d", tx.ID),
					UserID:       tx.CashierID,
					Notes:        fmt.Sprintf("Sold %d %s", line.Quantity, item.Name),
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Reverse puts back the stock a canceled sale consumed. Recipe ingredients are
// returned with an IN/AUDIT movement attributed to the system; pre-made
// counters get back only the units the sale actually took, and an item
// deactivated by that sale is reactivated.
func (s *StockService) Reverse(ctx context.Context, tx *entity.Transaction, lines []entity.TransactionLine) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			item, err := s.foodRepo.GetByIDForUpdate(ctx, line.FoodItemID)
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}

			switch model := item.StockModel().(type) {
			case entity.PreMadeStock:
				if line.StockDeducted == 0 {
					continue
				}
				restored := model.Quantity + line.StockDeducted
				if err := s.foodRepo.UpdateStock(ctx, item.ID, &restored, item.IsActive || model.Quantity == 0); err != nil {
					return err
				}

			case entity.RecipeBased:
				recipe, err := s.foodRepo.GetRecipe(ctx, item.ID)
				if err != nil {
					return err
				}
				if recipe == nil {
					continue
				}

				sold := decimal.NewFromInt(int64(line.Quantity))
				for _, ri := range recipe.Ingredients {
					ingredient, err := s.ingredientRepo.GetByIDForUpdateUnscoped(ctx, ri.IngredientID)
					if err != nil {
						return err
					}
					if ingredient == nil {
						return apperror.NewNotFoundError(fmt.Sprintf("Ingredient %d", ri.IngredientID))
					}

					qty := ri.Quantity.Mul(sold)
					if err := s.ingredientRepo.UpdateQuantity(ctx, ingredient.ID, ingredient.CurrentQuantity.Add(qty)); err != nil {
						return err
					}
					if err := s.movementRepo.Create(ctx, &entity.StockMovement{
						IngredientID: ingredient.ID,
						Quantity:     qty,
						MovementType: enum.MovementIn,
						Reason:       enum.ReasonAudit,
						Reference:    fmt.Sprintf("TX #%d CANCELED", tx.ID),
						Notes:        fmt.Sprintf("Reversal for canceled sale of %d %s", line.Quantity, item.Name),
					}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// ProduceInput represents a batch production request
type ProduceInput struct {
	FoodItemID uint
	Quantity   int
	ActorID    *uuid.UUID
}

// Produce cooks a batch of a recipe item into its pre-made stock counter.
// The whole batch is checked against every ingredient before anything is
// deducted, so a shortage leaves all quantities untouched.
func (s *StockService) Produce(ctx context.Context, input *ProduceInput) (*entity.FoodItem, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewFieldError("quantity", "must be a positive integer")
	}

	var produced *entity.FoodItem
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.foodRepo.GetByIDForUpdate(ctx, input.FoodItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Food item")
		}

		recipe, err := s.foodRepo.GetRecipe(ctx, item.ID)
		if err != nil {
			return err
		}
		if recipe == nil || !recipe.CanProduce() {
			return apperror.NewFieldError("recipe", "Cannot produce item without a valid recipe (minimum 2 ingredients required)")
		}

		ids := make([]uint, 0, len(recipe.Ingredients))
		for _, ri := range recipe.Ingredients {
			ids = append(ids, ri.IngredientID)
		}
		locked, err := s.ingredientRepo.LockByIDs(ctx, sortedUnique(ids))
		if err != nil {
			return err
		}
		byID := make(map[uint]*entity.Ingredient, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}

		batch := decimal.NewFromInt(int64(input.Quantity))
		for _, ri := range recipe.Ingredients {
			ingredient, ok := byID[ri.IngredientID]
			if !ok {
				return apperror.NewNotFoundError(fmt.Sprintf("Ingredient %d", ri.IngredientID))
			}
			required := ri.Quantity.Mul(batch)
			if ingredient.CurrentQuantity.LessThan(required) {
				return apperror.NewInsufficientStockError(ingredient.Name, required, ingredient.CurrentQuantity)
			}
		}

		for _, ri := range recipe.Ingredients {
			ingredient := byID[ri.IngredientID]
			required := ri.Quantity.Mul(batch)
			ingredient.CurrentQuantity = ingredient.CurrentQuantity.Sub(required)
			if err := s.ingredientRepo.UpdateQuantity(ctx, ingredient.ID, ingredient.CurrentQuantity); err != nil {
				return err
			}
			if err := s.movementRepo.Create(ctx, &entity.StockMovement{
				IngredientID: ingredient.ID,
				Quantity:     required.Neg(),
				MovementType: enum.MovementOut,
				Reason:       enum.ReasonConsumption,
				Reference:    ProductionReference,
				UserID:       input.ActorID,
				Notes:        fmt.Sprintf("Produced %d %s", input.Quantity, item.Name),
			}); err != nil {
				return err
			}
		}

		previous := 0
		if item.StockQuantity != nil {
			previous = *item.StockQuantity
		}
		stock := previous + input.Quantity
		if err := s.foodRepo.UpdateStock(ctx, item.ID, &stock, true); err != nil {
			return err
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:  input.ActorID,
			Action:   AuditActionProduce,
			Model:    "FoodItem",
			Previous: map[string]interface{}{"id": item.ID, "stock": previous},
			New:      map[string]interface{}{"stock": stock, "produced": input.Quantity},
		})

		produced, err = s.foodRepo.GetByID(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return produced, nil
}

// AdjustStockInput represents a manual stock correction
type AdjustStockInput struct {
	IngredientID uint
	Quantity     decimal.Decimal
	MovementType enum.MovementType
	Reason       enum.MovementReason
	ActorID      *uuid.UUID
	Notes        string
}

// AdjustManual applies a manual correction. IN adds, OUT subtracts and ADJUST
// sets the absolute quantity. The logged movement carries the signed change.
func (s *StockService) AdjustManual(ctx context.Context, input *AdjustStockInput) (*entity.Ingredient, error) {
	var fieldErrors []apperror.FieldError
	if !input.MovementType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "movement_type", Message: "must be IN, OUT or ADJUST"})
	}
	if !input.Reason.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "reason", Message: "is not a known reason"})
	}
	if input.MovementType == enum.MovementAdjust {
		if input.Quantity.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "cannot be negative"})
		}
	} else if !input.Quantity.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	var adjusted *entity.Ingredient
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		ingredient, err := s.ingredientRepo.GetByIDForUpdate(ctx, input.IngredientID)
		if err != nil {
			return err
		}
		if ingredient == nil {
			return apperror.NewNotFoundError("Ingredient")
		}

		current := ingredient.CurrentQuantity
		var next decimal.Decimal
		switch input.MovementType {
		case enum.MovementIn:
			next = current.Add(input.Quantity)
		case enum.MovementOut:
			if current.LessThan(input.Quantity) {
				return apperror.NewInsufficientStockError(ingredient.Name, input.Quantity, current)
			}
			next = current.Sub(input.Quantity)
		case enum.MovementAdjust:
			next = input.Quantity
		}

		if err := s.ingredientRepo.UpdateQuantity(ctx, ingredient.ID, next); err != nil {
			return err
		}
		if err := s.movementRepo.Create(ctx, &entity.StockMovement{
			IngredientID: ingredient.ID,
			Quantity:     next.Sub(current),
			MovementType: input.MovementType,
			Reason:       input.Reason,
			UserID:       input.ActorID,
			Notes:        input.Notes,
		}); err != nil {
			return err
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:  input.ActorID,
			Action:   AuditActionAdjust,
			Model:    "Ingredient",
			Previous: map[string]interface{}{"id": ingredient.ID, "current_quantity": current.String()},
			New: map[string]interface{}{
				"current_quantity": next.String(),
				"movement_type":    string(input.MovementType),
				"reason":           string(input.Reason),
			},
		})

		adjusted, err = s.ingredientRepo.GetByID(ctx, ingredient.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}

// ReceivePurchaseOrder books a pending purchase order into stock and settles
// it with the vendor: on account for CREDIT orders, from the cash drawer for CASH.
func (s *StockService) ReceivePurchaseOrder(ctx context.Context, purchaseOrderID uint, actorID *uuid.UUID) (*entity.PurchaseOrder, error) {
	var received *entity.PurchaseOrder
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		po, err := s.purchaseRepo.GetWithItemsForUpdate(ctx, purchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return apperror.NewNotFoundError("Purchase order")
		}
		if po.Status != enum.PurchaseOrderPending {
			return apperror.NewConflictError(fmt.Sprintf("Purchase order is %s", po.Status))
		}

		ids := make([]uint, 0, len(po.Items))
		for _, item := range po.Items {
			ids = append(ids, item.IngredientID)
		}
		locked, err := s.ingredientRepo.LockByIDs(ctx, sortedUnique(ids))
		if err != nil {
			return err
		}
		byID := make(map[uint]*entity.Ingredient, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}

		reference := fmt.Sprintf("PO #%d", po.ID)
		total := decimal.Zero
		for _, item := range po.Items {
			ingredient, ok := byID[item.IngredientID]
			if !ok {
				return apperror.NewNotFoundError(fmt.Sprintf("Ingredient %d", item.IngredientID))
			}

			qty := item.QuantityToReceive()
			ingredient.CurrentQuantity = ingredient.CurrentQuantity.Add(qty)
			if err := s.ingredientRepo.UpdateQuantity(ctx, ingredient.ID, ingredient.CurrentQuantity); err != nil {
				return err
			}
			if err := s.movementRepo.Create(ctx, &entity.StockMovement{
				IngredientID: ingredient.ID,
				Quantity:     qty,
				MovementType: enum.MovementIn,
				Reason:       enum.ReasonPurchase,
				Reference:    reference,
				UserID:       actorID,
			}); err != nil {
				return err
			}
			total = total.Add(qty.Mul(item.UnitPrice))
		}

		if total.IsPositive() {
			switch {
			case po.PaymentMethod == enum.PurchasePaymentCredit && po.VendorID != nil:
				if _, err := s.ledger.RecordVendorTransaction(ctx, &VendorTransactionInput{
					VendorID:  *po.VendorID,
					Amount:    total,
					Type:      enum.VendorCredit,
					Reference: reference,
					ActorID:   actorID,
				}); err != nil {
					return err
				}
			case po.PaymentMethod == enum.PurchasePaymentCash:
				if _, err := s.ledger.PostExpense(ctx, &CashEntryInput{
					Amount:      total,
					Description: fmt.Sprintf("Purchase order #%d", po.ID),
					ActorID:     actorID,
				}); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		if err := s.purchaseRepo.MarkReceived(ctx, po.ID, total, now); err != nil {
			return err
		}
		po.Status = enum.PurchaseOrderReceived
		po.TotalAmount = total
		po.ReceivedAt = &now

		s.audit.Record(ctx, AuditEntry{
			ActorID:  actorID,
			Action:   AuditActionReceive,
			Model:    "PurchaseOrder",
			Previous: map[string]interface{}{"id": po.ID, "status": string(enum.PurchaseOrderPending)},
			New:      map[string]interface{}{"status": string(po.Status), "total_amount": total.String()},
		})

		received = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

// LowStock lists ingredients at or below their reorder level
func (s *StockService) LowStock(ctx context.Context) ([]entity.Ingredient, error) {
	return s.ingredientRepo.ListLowStock(ctx)
}

// ListMovements returns the movement history of one ingredient, newest first
func (s *StockService) ListMovements(ctx context.Context, ingredientID uint, params *pagination.PaginationParams) ([]entity.StockMovement, int64, error) {
	ingredient, err := s.ingredientRepo.GetByID(ctx, ingredientID)
	if err != nil {
		return nil, 0, err
	}
	if ingredient == nil {
		return nil, 0, apperror.NewNotFoundError("Ingredient")
	}
	return s.movementRepo.ListByIngredient(ctx, ingredientID, params)
}

func sortedUnique(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
