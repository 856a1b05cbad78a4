package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/canteen-api/internal/config"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	domainRepo "github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/response"
	"github.com/sangkips/canteen-api/internal/presentation/http/handler"
	"github.com/sangkips/canteen-api/internal/presentation/http/middleware"
	"github.com/sangkips/canteen-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Transaction *handler.TransactionHandler
	Inventory   *handler.InventoryHandler
	Ledger      *handler.LedgerHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		if deps.RateLimiter != nil {
			auth.Use(deps.RateLimiter.Middleware())
		}
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	managers := middleware.RequireRole(enum.RoleAdmin, enum.RoleManager)
	admins := middleware.RequireRole(enum.RoleAdmin)
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	protected.GET("/auth/me", h.Auth.Me)

	transactions := protected.Group("/transactions")
	{
		transactions.POST("", idempotent, h.Transaction.Create)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.POST("/:id/cancel", admins, h.Transaction.Cancel)
		transactions.GET("/:id/receipt", h.Transaction.GetReceipt)
		transactions.POST("/:id/print", h.Printer.PrintReceipt)
	}
	protected.GET("/receipts/:token", h.Transaction.GetReceiptByToken)

	protected.POST("/food-items/:id/produce", managers, idempotent, h.Inventory.Produce)

	ingredients := protected.Group("/ingredients")
	{
		ingredients.GET("/low-stock", h.Inventory.LowStock)
		ingredients.GET("/:id/movements", h.Inventory.Movements)
		ingredients.POST("/:id/adjust", managers, idempotent, h.Inventory.Adjust)
	}

	protected.POST("/purchase-orders/:id/receive", managers, h.Inventory.ReceivePurchaseOrder)

	accounts := protected.Group("/credit-accounts", managers, idempotent)
	{
		accounts.POST("/:id/charge", h.Ledger.Charge)
		accounts.POST("/:id/payment", h.Ledger.Payment)
	}
	protected.POST("/vendors/:id/transactions", managers, idempotent, h.Ledger.VendorTransaction)

	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", managers, h.Printer.TestPrint)
	}
}
