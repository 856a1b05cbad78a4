package repository

import (
	"context"
	"errors"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	domainRepo "github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type creditAccountRepository struct {
	db *gorm.DB
}

// NewCreditAccountRepository creates a new credit account repository
func NewCreditAccountRepository(db *gorm.DB) domainRepo.CreditAccountRepository {
	return &creditAccountRepository{db: db}
}

func (r *creditAccountRepository) GetByID(ctx context.Context, id uint) (*entity.CreditAccount, error) {
	var account entity.CreditAccount
	err := conn(ctx, r.db).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *creditAccountRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entity.CreditAccount, error) {
	var account entity.CreditAccount
	err := conn(ctx, r.db).Clauses(forUpdate).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *creditAccountRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*entity.CreditAccount, error) {
	var account entity.CreditAccount
	err := conn(ctx, r.db).Clauses(forUpdate).
		Where("account_id = ?", accountID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *creditAccountRepository) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	return conn(ctx, r.db).Model(&entity.CreditAccount{}).
		Where("id = ?", id).
		Update("balance", balance).Error
}

type cashBookRepository struct {
	db *gorm.DB
}

// NewCashBookRepository creates a new cash book repository
func NewCashBookRepository(db *gorm.DB) domainRepo.CashBookRepository {
	return &cashBookRepository{db: db}
}

func (r *cashBookRepository) Create(ctx context.Context, entry *entity.CashBookEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *cashBookRepository) ListByTransaction(ctx context.Context, transactionID uint) ([]entity.CashBookEntry, error) {
	var entries []entity.CashBookEntry
	err := conn(ctx, r.db).
		Where("related_transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return conn(ctx, r.db).Create(expense).Error
}

type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *gorm.DB) domainRepo.VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Vendor, error) {
	var vendor entity.Vendor
	err := conn(ctx, r.db).Clauses(forUpdate).First(&vendor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &vendor, err
}

func (r *vendorRepository) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	return conn(ctx, r.db).Model(&entity.Vendor{}).
		Where("id = ?", id).
		Update("balance", balance).Error
}

func (r *vendorRepository) CreateTransaction(ctx context.Context, vt *entity.VendorTransaction) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(vt).Error
}
