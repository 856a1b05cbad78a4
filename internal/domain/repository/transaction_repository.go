package repository

import (
	"context"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransactionRepository defines the interface for sale header and line operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	CreateLine(ctx context.Context, line *entity.TransactionLine) error
	GetByID(ctx context.Context, id uint) (*entity.Transaction, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.Transaction, error)
	// GetWithDetails loads lines with their food items, the cashier and the receipt
	GetWithDetails(ctx context.Context, id uint) (*entity.Transaction, error)
	GetLines(ctx context.Context, transactionID uint) ([]entity.TransactionLine, error)
	UpdateSettlement(ctx context.Context, id uint, update *SettlementUpdate) error
	MarkCanceled(ctx context.Context, id uint, notes string) error
}

// SettlementUpdate carries the fields fixed once the lines are priced
type SettlementUpdate struct {
	TotalAmount      decimal.Decimal
	PaymentReference string
	CreditAccountID  *uint
}

// ReceiptRepository defines the interface for receipt operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByTransactionID(ctx context.Context, transactionID uint) (*entity.Receipt, error)
	GetByToken(ctx context.Context, token string) (*entity.Receipt, error)
}

// AuditLogRepository defines the interface for audit log persistence
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
