package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/canteen-api/internal/config"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(ParseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// ParseLogLevel maps DB_LOG_LEVEL to a gorm log level, defaulting to warn
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		&entity.User{},

		// Inventory
		&entity.Ingredient{},
		&entity.FoodItem{},
		&entity.Recipe{},
		&entity.RecipeIngredient{},
		&entity.StockMovement{},
		&entity.Vendor{},
		&entity.VendorTransaction{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},

		// Sales and ledger
		&entity.CreditAccount{},
		&entity.Transaction{},
		&entity.TransactionLine{},
		&entity.Receipt{},
		&entity.CashBookEntry{},
		&entity.Expense{},

		// System
		&entity.AuditLog{},
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the first administrator if configured and missing
func SeedDefaultData(db *gorm.DB, cfg *config.AdminConfig) error {
	log.Println("Seeding default data...")

	if cfg.Username == "" || cfg.Password == "" {
		log.Println("Admin credentials not configured, skipping admin seed")
		return nil
	}

	var existing entity.User
	if err := db.Where("username = ?", cfg.Username).First(&existing).Error; err == nil {
		log.Printf("Admin user already exists: %s", cfg.Username)
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := entity.User{
		Username: cfg.Username,
		FullName: cfg.FullName,
		Password: hashedPassword,
		Role:     enum.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", cfg.Username)
	}

	log.Println("Default data seeding completed")
	return nil
}
