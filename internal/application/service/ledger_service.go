package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// VendorPaymentCategory is the expense category of payments made to vendors
const VendorPaymentCategory = "Vendor Payment"

// LedgerService posts cash book entries and moves credit account and vendor balances
type LedgerService struct {
	txManager    repository.TxManager
	cashBookRepo repository.CashBookRepository
	expenseRepo  repository.ExpenseRepository
	accountRepo  repository.CreditAccountRepository
	vendorRepo   repository.VendorRepository
	audit        AuditRecorder
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	txManager repository.TxManager,
	cashBookRepo repository.CashBookRepository,
	expenseRepo repository.ExpenseRepository,
	accountRepo repository.CreditAccountRepository,
	vendorRepo repository.VendorRepository,
	audit AuditRecorder,
) *LedgerService {
	return &LedgerService{
		txManager:    txManager,
		cashBookRepo: cashBookRepo,
		expenseRepo:  expenseRepo,
		accountRepo:  accountRepo,
		vendorRepo:   vendorRepo,
		audit:        audit,
	}
}

// CashEntryInput represents a cash book posting
type CashEntryInput struct {
	Amount        decimal.Decimal
	Description   string
	TransactionID *uint
	ActorID       *uuid.UUID
}

// PostCash appends an income entry
func (s *LedgerService) PostCash(ctx context.Context, input *CashEntryInput) (*entity.CashBookEntry, error) {
	return s.post(ctx, enum.CashBookIncome, input)
}

// PostExpense appends an expense entry
func (s *LedgerService) PostExpense(ctx context.Context, input *CashEntryInput) (*entity.CashBookEntry, error) {
	return s.post(ctx, enum.CashBookExpense, input)
}

func (s *LedgerService) post(ctx context.Context, entryType enum.CashBookEntryType, input *CashEntryInput) (*entity.CashBookEntry, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "must be greater than zero")
	}

	entry := &entity.CashBookEntry{
		EntryType:            entryType,
		Amount:               input.Amount,
		Description:          input.Description,
		RelatedTransactionID: input.TransactionID,
		CreatedByID:          input.ActorID,
	}
	if err := s.cashBookRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ReverseTransactionEntries posts an opposite entry of equal amount for every
// cash book entry linked to the sale. The originals are left untouched.
func (s *LedgerService) ReverseTransactionEntries(ctx context.Context, transactionID uint, actorID *uuid.UUID) ([]entity.CashBookEntry, error) {
	entries, err := s.cashBookRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	reversals := make([]entity.CashBookEntry, 0, len(entries))
	txID := transactionID
	for _, e := range entries {
		reversal, err := s.post(ctx, e.EntryType.Opposite(), &CashEntryInput{
			Amount:        e.Amount,
			Description:   fmt.Sprintf("REVERSAL: Transaction %d canceled", transactionID),
			TransactionID: &txID,
			ActorID:       actorID,
		})
		if err != nil {
			return nil, err
		}
		reversals = append(reversals, *reversal)
	}
	return reversals, nil
}

// AdjustCreditBalance applies a signed delta to an account's balance under
// row lock and returns the account as stored afterwards.
func (s *LedgerService) AdjustCreditBalance(ctx context.Context, accountPK uint, delta decimal.Decimal) (*entity.CreditAccount, error) {
	var account *entity.CreditAccount
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.accountRepo.GetByIDForUpdate(ctx, accountPK)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperror.NewNotFoundError("Credit account")
		}

		if err := s.accountRepo.UpdateBalance(ctx, locked.ID, locked.Balance.Add(delta)); err != nil {
			return err
		}

		account, err = s.accountRepo.GetByID(ctx, locked.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreditSale adds a sale's credit portion to the account with the given
// business account id (e.g. "S100").
func (s *LedgerService) CreditSale(ctx context.Context, accountID string, amount decimal.Decimal) (*entity.CreditAccount, error) {
	var account *entity.CreditAccount
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.accountRepo.GetByAccountIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("Credit account %s", accountID))
		}

		account, err = s.AdjustCreditBalance(ctx, locked.ID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AccountMovementInput represents a manual charge or payment on a credit account
type AccountMovementInput struct {
	AccountPK   uint
	Amount      decimal.Decimal
	Description string
	ActorID     *uuid.UUID
}

// AccountMovementResult reports the balance before and after a charge or payment
type AccountMovementResult struct {
	AccountID  string          `json:"account_id"`
	Name       string          `json:"name"`
	OldBalance decimal.Decimal `json:"old_balance"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// Charge increases what the holder owes
func (s *LedgerService) Charge(ctx context.Context, input *AccountMovementInput) (*AccountMovementResult, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "Valid positive amount required")
	}

	var result *AccountMovementResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := s.accountRepo.GetByIDForUpdate(ctx, input.AccountPK)
		if err != nil {
			return err
		}
		if before == nil {
			return apperror.NewNotFoundError("Credit account")
		}

		after, err := s.AdjustCreditBalance(ctx, before.ID, input.Amount)
		if err != nil {
			return err
		}

		result = &AccountMovementResult{
			AccountID:  after.AccountID,
			Name:       after.Name,
			OldBalance: before.Balance,
			Amount:     input.Amount,
			NewBalance: after.Balance,
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:  input.ActorID,
			Action:   AuditActionCharge,
			Model:    "CreditAccount",
			Previous: map[string]interface{}{"balance": before.Balance.String()},
			New: map[string]interface{}{
				"balance":     after.Balance.String(),
				"charged":     input.Amount.String(),
				"description": input.Description,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Pay records money received from the holder. The balance goes down and the
// cash lands in the cash book as income.
func (s *LedgerService) Pay(ctx context.Context, input *AccountMovementInput) (*AccountMovementResult, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "Valid positive amount required")
	}

	var result *AccountMovementResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := s.accountRepo.GetByIDForUpdate(ctx, input.AccountPK)
		if err != nil {
			return err
		}
		if before == nil {
			return apperror.NewNotFoundError("Credit account")
		}

		after, err := s.AdjustCreditBalance(ctx, before.ID, input.Amount.Neg())
		if err != nil {
			return err
		}

		description := strings.TrimSpace(fmt.Sprintf("Credit payment from %s (%s). %s",
			after.Name, after.AccountID, input.Description))
		if _, err := s.PostCash(ctx, &CashEntryInput{
			Amount:      input.Amount,
			Description: description,
			ActorID:     input.ActorID,
		}); err != nil {
			return err
		}

		result = &AccountMovementResult{
			AccountID:  after.AccountID,
			Name:       after.Name,
			OldBalance: before.Balance,
			Amount:     input.Amount,
			NewBalance: after.Balance,
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:  input.ActorID,
			Action:   AuditActionPayment,
			Model:    "CreditAccount",
			Previous: map[string]interface{}{"balance": before.Balance.String()},
			New: map[string]interface{}{
				"balance":     after.Balance.String(),
				"paid":        input.Amount.String(),
				"description": input.Description,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VendorTransactionInput represents a purchase on account or a payment to a vendor
type VendorTransactionInput struct {
	VendorID  uint
	Amount    decimal.Decimal
	Type      enum.VendorTransactionType
	Reference string
	ActorID   *uuid.UUID
	Notes     string
}

// RecordVendorTransaction moves what we owe a vendor. CREDIT (goods received
// on account) raises the balance; DEBIT (payment) lowers it and books the
// cash going out as an expense.
func (s *LedgerService) RecordVendorTransaction(ctx context.Context, input *VendorTransactionInput) (*entity.VendorTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewFieldError("amount", "must be greater than zero")
	}
	if !input.Type.IsValid() {
		return nil, apperror.NewFieldError("transaction_type", "must be CREDIT or DEBIT")
	}

	var vt *entity.VendorTransaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		vendor, err := s.vendorRepo.GetByIDForUpdate(ctx, input.VendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return apperror.NewNotFoundError("Vendor")
		}

		balance := vendor.Balance
		if input.Type == enum.VendorCredit {
			balance = balance.Add(input.Amount)
		} else {
			balance = balance.Sub(input.Amount)

			description := fmt.Sprintf("Payment to %s", vendor.Name)
			if input.Reference != "" {
				description = fmt.Sprintf("%s (%s)", description, input.Reference)
			}
			if err := s.expenseRepo.Create(ctx, &entity.Expense{
				Description: description,
				Amount:      input.Amount,
				Category:    VendorPaymentCategory,
				PaidBy:      "cash",
			}); err != nil {
				return err
			}
			if _, err := s.PostExpense(ctx, &CashEntryInput{
				Amount:      input.Amount,
				Description: description,
				ActorID:     input.ActorID,
			}); err != nil {
				return err
			}
		}

		if err := s.vendorRepo.UpdateBalance(ctx, vendor.ID, balance); err != nil {
			return err
		}

		vt = &entity.VendorTransaction{
			VendorID:        vendor.ID,
			TransactionType: input.Type,
			Amount:          input.Amount,
			Reference:       input.Reference,
			BalanceAfter:    balance,
			Notes:           input.Notes,
			CreatedByID:     input.ActorID,
		}
		if err := s.vendorRepo.CreateTransaction(ctx, vt); err != nil {
			return err
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:  input.ActorID,
			Action:   AuditActionVendorTxn,
			Model:    "Vendor",
			Previous: map[string]interface{}{"id": vendor.ID, "balance": vendor.Balance.String()},
			New: map[string]interface{}{
				"balance": balance.String(),
				"type":    string(input.Type),
				"amount":  input.Amount.String(),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vt, nil
}
