package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/sangkips/canteen-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduce_ConsumesIngredientsIntoStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	flour := env.seedIngredient(t, "Flour", "1000", "100")
	potato := env.seedIngredient(t, "Potato", "800", "100")
	samosa := env.seedRecipeItem(t, "Samosa", "25", map[*entity.Ingredient]string{flour: "40", potato: "60"})

	item, err := env.stock.Produce(ctx, &service.ProduceInput{FoodItemID: samosa.ID, Quantity: 10, ActorID: &env.admin.ID})
	require.NoError(t, err)
	require.NotNil(t, item.StockQuantity)
	assert.Equal(t, 10, *item.StockQuantity)
	assert.True(t, item.IsActive)

	assertDecimal(t, "600", env.ingredient(t, flour.ID).CurrentQuantity)
	assertDecimal(t, "200", env.ingredient(t, potato.ID).CurrentQuantity)

	var movements []entity.StockMovement
	require.NoError(t, env.db.Where("reference = ?", service.ProductionReference).Find(&movements).Error)
	assert.Len(t, movements, 2)

	// A second batch adds to the counter.
	item, err = env.stock.Produce(ctx, &service.ProduceInput{FoodItemID: samosa.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 12, *item.StockQuantity)
}

func TestProduce_ShortageMutatesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	flour := env.seedIngredient(t, "Flour", "1000", "100")
	potato := env.seedIngredient(t, "Potato", "100", "100")
	samosa := env.seedRecipeItem(t, "Samosa", "25", map[*entity.Ingredient]string{flour: "40", potato: "60"})

	_, err := env.stock.Produce(ctx, &service.ProduceInput{FoodItemID: samosa.ID, Quantity: 2})
	require.Error(t, err)
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Potato", stockErr.Item)
	assert.Equal(t, "Insufficient stock for Potato: required 120, available 100", err.Error())

	assertDecimal(t, "1000", env.ingredient(t, flour.ID).CurrentQuantity)
	assertDecimal(t, "100", env.ingredient(t, potato.ID).CurrentQuantity)
	assert.Nil(t, env.foodItem(t, samosa.ID).StockQuantity)
	assert.Zero(t, env.count(t, &entity.StockMovement{}))
}

func TestProduce_RequiresTwoIngredientRecipe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	flour := env.seedIngredient(t, "Flour", "1000", "100")
	roti := env.seedRecipeItem(t, "Roti", "10", map[*entity.Ingredient]string{flour: "50"})
	bare := env.seedPreMadeItem(t, "Chips", "30", 0)

	for _, id := range []uint{roti.ID, bare.ID} {
		_, err := env.stock.Produce(ctx, &service.ProduceInput{FoodItemID: id, Quantity: 1})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, appErr.Error(), "minimum 2 ingredients")
	}
	assertDecimal(t, "1000", env.ingredient(t, flour.ID).CurrentQuantity)

	_, err := env.stock.Produce(ctx, &service.ProduceInput{FoodItemID: roti.ID, Quantity: 0})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = env.stock.Produce(ctx, &service.ProduceInput{FoodItemID: 404, Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdjustManual(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sugar := env.seedIngredient(t, "Sugar", "500", "100")

	ing, err := env.stock.AdjustManual(ctx, &service.AdjustStockInput{
		IngredientID: sugar.ID, Quantity: decimal.NewFromInt(250),
		MovementType: enum.MovementIn, Reason: enum.ReasonPurchase, ActorID: &env.admin.ID,
	})
	require.NoError(t, err)
	assertDecimal(t, "750", ing.CurrentQuantity)

	ing, err = env.stock.AdjustManual(ctx, &service.AdjustStockInput{
		IngredientID: sugar.ID, Quantity: decimal.NewFromInt(50),
		MovementType: enum.MovementOut, Reason: enum.ReasonWastage,
	})
	require.NoError(t, err)
	assertDecimal(t, "700", ing.CurrentQuantity)

	ing, err = env.stock.AdjustManual(ctx, &service.AdjustStockInput{
		IngredientID: sugar.ID, Quantity: decimal.NewFromInt(680),
		MovementType: enum.MovementAdjust, Reason: enum.ReasonAudit, Notes: "stock take",
	})
	require.NoError(t, err)
	assertDecimal(t, "680", ing.CurrentQuantity)

	_, err = env.stock.AdjustManual(ctx, &service.AdjustStockInput{
		IngredientID: sugar.ID, Quantity: decimal.NewFromInt(1000),
		MovementType: enum.MovementOut, Reason: enum.ReasonSpoilage,
	})
	assert.True(t, apperror.IsInsufficientStock(err))
	assertDecimal(t, "680", env.ingredient(t, sugar.ID).CurrentQuantity)

	_, err = env.stock.AdjustManual(ctx, &service.AdjustStockInput{
		IngredientID: sugar.ID, Quantity: decimal.NewFromInt(-1),
		MovementType: enum.MovementAdjust, Reason: enum.ReasonAudit,
	})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = env.stock.AdjustManual(ctx, &service.AdjustStockInput{
		IngredientID: sugar.ID, Quantity: decimal.NewFromInt(1),
		MovementType: enum.MovementIn, Reason: "BIRTHDAY",
	})
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	movements, total, err := env.stock.ListMovements(ctx, sugar.ID, &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, movements, 3)
	// Newest first, each carrying the signed change.
	assertDecimal(t, "-20", movements[0].Quantity)
	assertDecimal(t, "-50", movements[1].Quantity)
	assertDecimal(t, "250", movements[2].Quantity)

	_, _, err = env.stock.ListMovements(ctx, 999, pagination.DefaultPagination())
	assert.True(t, apperror.IsNotFound(err))
}

func TestLowStock(t *testing.T) {
	env := newTestEnv(t)

	env.seedIngredient(t, "Salt", "100", "100")
	env.seedIngredient(t, "Tea", "20", "50")
	env.seedIngredient(t, "Milk", "5000", "1000")

	low, err := env.stock.LowStock(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(low))
	for _, i := range low {
		names = append(names, i.Name)
		assert.True(t, i.IsLow())
	}
	assert.ElementsMatch(t, []string{"Salt", "Tea"}, names)
}

func TestReceivePurchaseOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rice := env.seedIngredient(t, "Rice", "100", "500")
	dal := env.seedIngredient(t, "Dal", "0", "200")
	vendor := &entity.Vendor{Name: "Valley Grains", IsActive: true, Balance: decimal.NewFromInt(1000)}
	require.NoError(t, env.db.Create(vendor).Error)

	onAccount := &entity.PurchaseOrder{
		VendorID:      &vendor.ID,
		PaymentMethod: enum.PurchasePaymentCredit,
		Status:        enum.PurchaseOrderPending,
		TotalAmount:   decimal.Zero,
		Items: []entity.PurchaseOrderItem{
			{IngredientID: rice.ID, Quantity: decimal.NewFromInt(1000), UnitPrice: decimal.RequireFromString("0.1"), ReceivedQuantity: decimal.Zero},
			{IngredientID: dal.ID, Quantity: decimal.NewFromInt(500), UnitPrice: decimal.RequireFromString("0.2"), ReceivedQuantity: decimal.NewFromInt(400)},
		},
	}
	require.NoError(t, env.db.Create(onAccount).Error)

	po, err := env.stock.ReceivePurchaseOrder(ctx, onAccount.ID, &env.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderReceived, po.Status)
	assertDecimal(t, "180", po.TotalAmount)
	assertDecimal(t, "1100", env.ingredient(t, rice.ID).CurrentQuantity)
	assertDecimal(t, "400", env.ingredient(t, dal.ID).CurrentQuantity)

	var stored entity.Vendor
	require.NoError(t, env.db.First(&stored, vendor.ID).Error)
	assertDecimal(t, "1180", stored.Balance)

	var vts []entity.VendorTransaction
	require.NoError(t, env.db.Where("vendor_id = ?", vendor.ID).Find(&vts).Error)
	require.Len(t, vts, 1)
	assert.Equal(t, enum.VendorCredit, vts[0].TransactionType)
	assert.Equal(t, fmt.Sprintf("PO #%d", onAccount.ID), vts[0].Reference)
	assertDecimal(t, "1180", vts[0].BalanceAfter)
	assert.Zero(t, env.count(t, &entity.CashBookEntry{}))

	_, err = env.stock.ReceivePurchaseOrder(ctx, onAccount.ID, &env.admin.ID)
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
	assertDecimal(t, "1100", env.ingredient(t, rice.ID).CurrentQuantity)

	cashOrder := &entity.PurchaseOrder{
		PaymentMethod: enum.PurchasePaymentCash,
		Status:        enum.PurchaseOrderPending,
		TotalAmount:   decimal.Zero,
		Items: []entity.PurchaseOrderItem{
			{IngredientID: rice.ID, Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(1), ReceivedQuantity: decimal.Zero},
		},
	}
	require.NoError(t, env.db.Create(cashOrder).Error)

	_, err = env.stock.ReceivePurchaseOrder(ctx, cashOrder.ID, nil)
	require.NoError(t, err)

	var entries []entity.CashBookEntry
	require.NoError(t, env.db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.CashBookExpense, entries[0].EntryType)
	assertDecimal(t, "100", entries[0].Amount)
	assert.Equal(t, fmt.Sprintf("Purchase order #%d", cashOrder.ID), entries[0].Description)
}
