package service_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/infrastructure/database"
	"github.com/sangkips/canteen-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services over a private in-memory database. The pool is
// limited to one connection, so concurrent transactions run one at a time the
// way row locks would order them on PostgreSQL.
type testEnv struct {
	db           *gorm.DB
	transactions *service.TransactionService
	stock        *service.StockService
	ledger       *service.LedgerService
	cashier      *entity.User
	admin        *entity.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))

	txManager := repository.NewTxManager(db)
	audit := service.NewAuditRecorder(repository.NewAuditLogRepository(db))
	userRepo := repository.NewUserRepository(db)

	ledger := service.NewLedgerService(
		txManager,
		repository.NewCashBookRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewCreditAccountRepository(db),
		repository.NewVendorRepository(db),
		audit,
	)
	stock := service.NewStockService(
		txManager,
		repository.NewFoodItemRepository(db),
		repository.NewIngredientRepository(db),
		repository.NewStockMovementRepository(db),
		repository.NewPurchaseOrderRepository(db),
		ledger,
		audit,
	)
	receipts := service.NewReceiptService(service.NewStaticOrganization("EECOHM School", "Main Road"), "")
	transactions := service.NewTransactionService(
		txManager,
		repository.NewTransactionRepository(db),
		repository.NewReceiptRepository(db),
		userRepo,
		stock,
		ledger,
		receipts,
		audit,
	)

	env := &testEnv{
		db:           db,
		transactions: transactions,
		stock:        stock,
		ledger:       ledger,
	}
	env.cashier = env.seedUser(t, "cashier1", enum.RoleCashier)
	env.admin = env.seedUser(t, "admin", enum.RoleAdmin)
	return env
}

func (e *testEnv) seedUser(t *testing.T, username string, role enum.Role) *entity.User {
	t.Helper()
	u := &entity.User{Username: username, FullName: username + " user", Role: role, IsActive: true}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) seedIngredient(t *testing.T, name string, quantity, reorder string) *entity.Ingredient {
	t.Helper()
	ing := &entity.Ingredient{
		Name:            name,
		Unit:            enum.UnitGram,
		CurrentQuantity: decimal.RequireFromString(quantity),
		ReorderLevel:    decimal.RequireFromString(reorder),
	}
	require.NoError(t, e.db.Create(ing).Error)
	return ing
}

// seedRecipeItem creates a menu item whose ingredients are consumed at sale
// time, with per-unit recipe quantities keyed by ingredient.
func (e *testEnv) seedRecipeItem(t *testing.T, name, price string, uses map[*entity.Ingredient]string) *entity.FoodItem {
	t.Helper()
	item := &entity.FoodItem{
		Name:      name,
		PriceFull: decimal.RequireFromString(price),
		PriceHalf: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		IsActive:  true,
	}
	require.NoError(t, e.db.Create(item).Error)
	e.attachRecipe(t, item, uses)
	return item
}

func (e *testEnv) attachRecipe(t *testing.T, item *entity.FoodItem, uses map[*entity.Ingredient]string) {
	t.Helper()
	recipe := &entity.Recipe{FoodItemID: item.ID}
	require.NoError(t, e.db.Create(recipe).Error)
	for ing, qty := range uses {
		require.NoError(t, e.db.Create(&entity.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.ID,
			Quantity:     decimal.RequireFromString(qty),
		}).Error)
	}
}

func (e *testEnv) seedPreMadeItem(t *testing.T, name, price string, stock int) *entity.FoodItem {
	t.Helper()
	item := &entity.FoodItem{
		Name:          name,
		PriceFull:     decimal.RequireFromString(price),
		PriceHalf:     decimal.RequireFromString(price),
		IsActive:      true,
		StockQuantity: &stock,
	}
	require.NoError(t, e.db.Create(item).Error)
	return item
}

func (e *testEnv) seedAccount(t *testing.T, accountID, balance string) *entity.CreditAccount {
	t.Helper()
	acc := &entity.CreditAccount{
		AccountID:   accountID,
		Name:        "Account " + accountID,
		AccountType: enum.AccountTypeStudent,
		Balance:     decimal.RequireFromString(balance),
	}
	require.NoError(t, e.db.Create(acc).Error)
	return acc
}

func (e *testEnv) ingredient(t *testing.T, id uint) *entity.Ingredient {
	t.Helper()
	var ing entity.Ingredient
	require.NoError(t, e.db.First(&ing, id).Error)
	return &ing
}

func (e *testEnv) foodItem(t *testing.T, id uint) *entity.FoodItem {
	t.Helper()
	var item entity.FoodItem
	require.NoError(t, e.db.First(&item, id).Error)
	return &item
}

func (e *testEnv) account(t *testing.T, id uint) *entity.CreditAccount {
	t.Helper()
	var acc entity.CreditAccount
	require.NoError(t, e.db.First(&acc, id).Error)
	return &acc
}

func (e *testEnv) cashEntries(t *testing.T, transactionID uint) []entity.CashBookEntry {
	t.Helper()
	var entries []entity.CashBookEntry
	require.NoError(t, e.db.Where("related_transaction_id = ?", transactionID).Order("id").Find(&entries).Error)
	return entries
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func (e *testEnv) sell(ctx context.Context, item *entity.FoodItem, qty int, paymentType enum.PaymentType) (*entity.Transaction, error) {
	return e.transactions.Create(ctx, &service.CreateTransactionInput{
		CashierID:   e.cashier.ID,
		PaymentType: paymentType,
		Lines: []service.TransactionLineInput{
			{FoodItemID: item.ID, PortionType: enum.PortionFull, UnitPrice: item.PriceFull, Quantity: qty},
		},
	})
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
