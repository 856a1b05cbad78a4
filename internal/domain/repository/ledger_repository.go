package repository

import (
	"context"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreditAccountRepository defines the interface for credit account operations
type CreditAccountRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.CreditAccount, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.CreditAccount, error)
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*entity.CreditAccount, error)
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
}

// CashBookRepository defines the interface for the append-only cash book
type CashBookRepository interface {
	Create(ctx context.Context, entry *entity.CashBookEntry) error
	ListByTransaction(ctx context.Context, transactionID uint) ([]entity.CashBookEntry, error)
}

// ExpenseRepository defines the interface for expense operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
}

// VendorRepository defines the interface for vendor balance operations
type VendorRepository interface {
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.Vendor, error)
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
	CreateTransaction(ctx context.Context, vt *entity.VendorTransaction) error
}
