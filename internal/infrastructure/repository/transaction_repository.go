package repository

import (
	"context"
	"errors"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	domainRepo "github.com/sangkips/canteen-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new sale transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(tx).Error
}

func (r *transactionRepository) CreateLine(ctx context.Context, line *entity.TransactionLine) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(line).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := conn(ctx, r.db).First(&tx, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := conn(ctx, r.db).Clauses(forUpdate).First(&tx, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) GetWithDetails(ctx context.Context, id uint) (*entity.Transaction, error) {
	var tx entity.Transaction
	err := conn(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Lines.FoodItem", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Preload("Cashier").
		Preload("Receipt").
		First(&tx, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *transactionRepository) GetLines(ctx context.Context, transactionID uint) ([]entity.TransactionLine, error) {
	var lines []entity.TransactionLine
	err := conn(ctx, r.db).
		Preload("FoodItem", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Where("transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *transactionRepository) UpdateSettlement(ctx context.Context, id uint, update *domainRepo.SettlementUpdate) error {
	return conn(ctx, r.db).Model(&entity.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_amount":      update.TotalAmount,
			"payment_reference": update.PaymentReference,
			"credit_account_id": update.CreditAccountID,
		}).Error
}

func (r *transactionRepository) MarkCanceled(ctx context.Context, id uint, notes string) error {
	return conn(ctx, r.db).Model(&entity.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_canceled": true,
			"notes":       notes,
		}).Error
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return conn(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) GetByTransactionID(ctx context.Context, transactionID uint) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).Where("transaction_id = ?", transactionID).First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByToken(ctx context.Context, token string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).Where("token = ?", token).First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create writes the entry in a savepoint when called inside a transaction,
// so a failed audit insert leaves the surrounding work usable.
func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(log).Error
	})
}
