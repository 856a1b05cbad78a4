package entity

import (
	"testing"
	"time"

	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFoodItemStockModel(t *testing.T) {
	cooked := &FoodItem{Name: "Dal Bhat"}
	assert.Equal(t, RecipeBased{}, cooked.StockModel())

	zero := 0
	soldOut := &FoodItem{Name: "Juice", StockQuantity: &zero}
	assert.Equal(t, PreMadeStock{Quantity: 0}, soldOut.StockModel())

	twelve := 12
	model, ok := (&FoodItem{StockQuantity: &twelve}).StockModel().(PreMadeStock)
	assert.True(t, ok)
	assert.Equal(t, 12, model.Quantity)
}

func TestFoodItemPriceFor(t *testing.T) {
	item := &FoodItem{PriceFull: decimal.NewFromInt(80), PriceHalf: decimal.NewFromInt(45)}
	assert.True(t, item.PriceFor(enum.PortionFull).Equal(decimal.NewFromInt(80)))
	assert.True(t, item.PriceFor(enum.PortionHalf).Equal(decimal.NewFromInt(45)))
}

func TestRecipeCanProduce(t *testing.T) {
	assert.False(t, (&Recipe{}).CanProduce())
	assert.False(t, (&Recipe{Ingredients: []RecipeIngredient{{IngredientID: 1}}}).CanProduce())
	// The same ingredient listed twice still counts once.
	assert.False(t, (&Recipe{Ingredients: []RecipeIngredient{{IngredientID: 1}, {IngredientID: 1}}}).CanProduce())
	assert.True(t, (&Recipe{Ingredients: []RecipeIngredient{{IngredientID: 1}, {IngredientID: 2}}}).CanProduce())
}

func TestIngredientIsLow(t *testing.T) {
	ing := &Ingredient{CurrentQuantity: decimal.NewFromInt(10), ReorderLevel: decimal.NewFromInt(10)}
	assert.True(t, ing.IsLow())
	ing.CurrentQuantity = decimal.RequireFromString("10.001")
	assert.False(t, ing.IsLow())
}

func TestTransactionLineTotals(t *testing.T) {
	line := &TransactionLine{UnitPrice: decimal.RequireFromString("12.50"), Quantity: 3}
	assert.NoError(t, line.BeforeSave(nil))
	assert.True(t, line.LineTotal.Equal(decimal.RequireFromString("37.5")))
	assert.ErrorIs(t, line.BeforeUpdate(nil), ErrImmutableRecord)

	tx := &Transaction{Lines: []TransactionLine{*line, {LineTotal: decimal.NewFromInt(10)}}}
	assert.True(t, tx.LinesTotal().Equal(decimal.RequireFromString("47.5")))
}

func TestAppendOnlyRecordsRejectChanges(t *testing.T) {
	assert.ErrorIs(t, (&Receipt{}).BeforeUpdate(nil), ErrImmutableRecord)
	assert.ErrorIs(t, (&Receipt{}).BeforeDelete(nil), ErrImmutableRecord)
	assert.ErrorIs(t, (&StockMovement{}).BeforeUpdate(nil), ErrImmutableRecord)
	assert.ErrorIs(t, (&StockMovement{}).BeforeDelete(nil), ErrImmutableRecord)
	assert.ErrorIs(t, (&CashBookEntry{}).BeforeUpdate(nil), ErrImmutableRecord)
}

func TestPurchaseOrderItemQuantityToReceive(t *testing.T) {
	ordered := &PurchaseOrderItem{Quantity: decimal.NewFromInt(50)}
	assert.True(t, ordered.QuantityToReceive().Equal(decimal.NewFromInt(50)))

	partial := &PurchaseOrderItem{Quantity: decimal.NewFromInt(50), ReceivedQuantity: decimal.NewFromInt(30)}
	assert.True(t, partial.QuantityToReceive().Equal(decimal.NewFromInt(30)))
}

func TestIdempotencyKeyState(t *testing.T) {
	reserved := &IdempotencyKey{ExpiresAt: time.Now().Add(time.Minute)}
	assert.True(t, reserved.IsPending())
	assert.False(t, reserved.IsExpired())

	done := &IdempotencyKey{ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Second)}
	assert.False(t, done.IsPending())
	assert.True(t, done.IsExpired())
}
