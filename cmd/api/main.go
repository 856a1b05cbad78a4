package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/config"
	domainRepo "github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/internal/infrastructure/database"
	"github.com/sangkips/canteen-api/internal/infrastructure/repository"
	"github.com/sangkips/canteen-api/internal/presentation/http/handler"
	"github.com/sangkips/canteen-api/internal/presentation/http/middleware"
	"github.com/sangkips/canteen-api/internal/presentation/http/routes"
	"github.com/sangkips/canteen-api/pkg/printer"
	"github.com/sangkips/canteen-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(db, &cfg.Admin); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.App.Name,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	foodItemRepo := repository.NewFoodItemRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(db)
	creditAccountRepo := repository.NewCreditAccountRepository(db)
	cashBookRepo := repository.NewCashBookRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	vendorRepo := repository.NewVendorRepository(db)

	// Services
	audit := service.NewAuditRecorder(auditRepo)
	organization := service.NewStaticOrganization(cfg.Organization.Name, cfg.Organization.Address)

	authService := service.NewAuthService(userRepo, jwtManager)
	ledgerService := service.NewLedgerService(txManager, cashBookRepo, expenseRepo, creditAccountRepo, vendorRepo, audit)
	stockService := service.NewStockService(txManager, foodItemRepo, ingredientRepo, movementRepo, purchaseOrderRepo, ledgerService, audit)
	receiptService := service.NewReceiptService(organization, cfg.Organization.TokenPrefix)
	transactionService := service.NewTransactionService(
		txManager, transactionRepo, receiptRepo, userRepo,
		stockService, ledgerService, receiptService, audit,
	)

	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, transactionRepo, receiptRepo, cfg.Printer.Type, cfg.Printer.Width)

	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Inventory:   handler.NewInventoryHandler(stockService),
		Ledger:      handler.NewLedgerHandler(ledgerService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewUserRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

// purgeIdempotencyKeys drops expired idempotency keys until ctx is done.
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Printf("Failed to purge expired idempotency keys: %v", err)
			}
		}
	}
}
