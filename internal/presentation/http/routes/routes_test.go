package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/config"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/infrastructure/database"
	"github.com/sangkips/canteen-api/internal/infrastructure/repository"
	"github.com/sangkips/canteen-api/internal/presentation/http/handler"
	"github.com/sangkips/canteen-api/pkg/printer"
	"github.com/sangkips/canteen-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		App:   config.AppConfig{Name: "canteen-api"},
		Admin: config.AdminConfig{Username: "admin", FullName: "Admin", Password: "admin-pass"},
	}
	require.NoError(t, database.SeedDefaultData(db, &cfg.Admin))

	jwtManager := utils.NewJWTManager("test-secret", cfg.App.Name, time.Hour, time.Hour)

	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	audit := service.NewAuditRecorder(repository.NewAuditLogRepository(db))

	ledger := service.NewLedgerService(txManager, repository.NewCashBookRepository(db), repository.NewExpenseRepository(db),
		repository.NewCreditAccountRepository(db), repository.NewVendorRepository(db), audit)
	stock := service.NewStockService(txManager, repository.NewFoodItemRepository(db), repository.NewIngredientRepository(db),
		repository.NewStockMovementRepository(db), repository.NewPurchaseOrderRepository(db), ledger, audit)
	transactions := service.NewTransactionService(txManager, transactionRepo, receiptRepo, userRepo, stock, ledger,
		service.NewReceiptService(service.NewStaticOrganization("EECOHM School", ""), ""), audit)

	router := Setup(&Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		Transaction: handler.NewTransactionHandler(transactions),
		Inventory:   handler.NewInventoryHandler(stock),
		Ledger:      handler.NewLedgerHandler(ledger),
		Printer:     handler.NewPrinterHandler(service.NewPrinterService(printer.NewNullPrinter(), transactionRepo, receiptRepo, printer.TypeNone, 32)),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
	})

	return &apiClient{t: t, router: router, db: db}
}

func (a *apiClient) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (a *apiClient) login(username, password string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return body["data"].(map[string]interface{})["access_token"].(string)
}

func TestSaleLifecycleOverHTTP(t *testing.T) {
	api := newAPI(t)

	hash, err := utils.HashPassword("till-pass")
	require.NoError(t, err)
	require.NoError(t, api.db.Create(&entity.User{Username: "till1", Password: hash, Role: enum.RoleCashier, IsActive: true}).Error)

	stock := 5
	soda := &entity.FoodItem{Name: "Soda", PriceFull: decimal.NewFromInt(30), PriceHalf: decimal.NewFromInt(30), IsActive: true, StockQuantity: &stock}
	require.NoError(t, api.db.Create(soda).Error)

	w, _ := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "till1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cashier := api.login("till1", "till-pass")
	admin := api.login("admin", "admin-pass")

	sale := gin.H{
		"payment_type": "cash",
		"lines": []gin.H{
			{"food_item_id": soda.ID, "portion_type": "full", "unit_price": "30", "quantity": 2},
		},
	}

	w, body := api.do(http.MethodPost, "/api/v1/transactions", cashier, sale, "Idempotency-Key", "sale-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	txID := uint(body["data"].(map[string]interface{})["id"].(float64))

	// A retried request is answered from the stored response, not sold twice.
	w, _ = api.do(http.MethodPost, "/api/v1/transactions", cashier, sale, "Idempotency-Key", "sale-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))

	var count int64
	require.NoError(t, api.db.Model(&entity.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w, body = api.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d/receipt", txID), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := body["data"].(map[string]interface{})["token"].(string)
	assert.Regexp(t, `^EECOHM-\d{4}-\d{6}$`, token)

	w, _ = api.do(http.MethodGet, "/api/v1/receipts/"+token, cashier, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/v1/transactions/%d/cancel", txID), cashier, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = api.do(http.MethodPost, fmt.Sprintf("/api/v1/transactions/%d/cancel", txID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["data"].(map[string]interface{})["is_canceled"])

	var restored entity.FoodItem
	require.NoError(t, api.db.First(&restored, soda.ID).Error)
	assert.Equal(t, 5, *restored.StockQuantity)
}

func TestRequestValidationOverHTTP(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin", "admin-pass")

	w, _ := api.do(http.MethodPost, "/api/v1/transactions", admin, gin.H{"payment_type": "barter", "lines": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/transactions/abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/transactions/77", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/transactions/77", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, body = api.do(http.MethodGet, "/api/v1/tills", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", body["message"])
	assert.Equal(t, false, body["success"])
}
