package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/domain/repository"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TransactionService records sales and their cancellations. Each call is one
// atomic unit: header, lines, stock, cash book, balances, receipt and audit
// either all commit or none do.
type TransactionService struct {
	txManager   repository.TxManager
	txRepo      repository.TransactionRepository
	receiptRepo repository.ReceiptRepository
	userRepo    repository.UserRepository
	stock       *StockService
	ledger      *LedgerService
	receipts    *ReceiptService
	audit       AuditRecorder
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txManager repository.TxManager,
	txRepo repository.TransactionRepository,
	receiptRepo repository.ReceiptRepository,
	userRepo repository.UserRepository,
	stock *StockService,
	ledger *LedgerService,
	receipts *ReceiptService,
	audit AuditRecorder,
) *TransactionService {
	return &TransactionService{
		txManager:   txManager,
		txRepo:      txRepo,
		receiptRepo: receiptRepo,
		userRepo:    userRepo,
		stock:       stock,
		ledger:      ledger,
		receipts:    receipts,
		audit:       audit,
	}
}

// TransactionLineInput represents one sold item
type TransactionLineInput struct {
	FoodItemID  uint
	PortionType enum.PortionType
	UnitPrice   decimal.Decimal
	Quantity    int
}

// CreateTransactionInput represents the create sale input.
// LinkedAccountID is the business account id of a credit account (e.g. "S100").
type CreateTransactionInput struct {
	CashierID        uuid.UUID
	PaymentType      enum.PaymentType
	Lines            []TransactionLineInput
	Tax              decimal.Decimal
	Discount         decimal.Decimal
	LinkedAccountID  string
	CashAmount       *decimal.Decimal
	CreditAmount     *decimal.Decimal
	PaymentReference string
	Notes            string
}

func (in *CreateTransactionInput) validate() error {
	var fieldErrors []apperror.FieldError
	if !in.PaymentType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_type", Message: "must be cash, credit or mixed"})
	}
	if len(in.Lines) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "lines", Message: "at least one line is required"})
	}
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("lines[%d].quantity", i), Message: "must be greater than zero"})
		}
		if !l.PortionType.IsValid() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("lines[%d].portion_type", i), Message: "must be full or half"})
		}
		if l.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("lines[%d].unit_price", i), Message: "cannot be negative"})
		}
	}
	if in.Tax.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax", Message: "cannot be negative"})
	}
	if in.Discount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount", Message: "cannot be negative"})
	}
	if in.CashAmount != nil && in.CashAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "cash_amount", Message: "cannot be negative"})
	}
	if in.CreditAmount != nil && in.CreditAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "credit_amount", Message: "cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// SplitPayment divides a sale total into its cash and credit portions.
// A mixed sale takes cash_amount (default 0) in cash and the given
// credit_amount, or whatever remains of the total, on credit.
func SplitPayment(paymentType enum.PaymentType, total decimal.Decimal, cashAmount, creditAmount *decimal.Decimal) (cash, credit decimal.Decimal) {
	switch paymentType {
	case enum.PaymentTypeCash:
		return total, decimal.Zero
	case enum.PaymentTypeCredit:
		return decimal.Zero, total
	}

	cash = decimal.Zero
	if cashAmount != nil {
		cash = *cashAmount
	}
	if creditAmount != nil {
		return cash, *creditAmount
	}
	return cash, total.Sub(cash)
}

// Create records a sale
func (s *TransactionService) Create(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *entity.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cashier, err := s.userRepo.GetByID(ctx, input.CashierID)
		if err != nil {
			return err
		}
		if cashier == nil {
			return apperror.NewNotFoundError("Cashier")
		}

		foodItemIDs := make([]uint, len(input.Lines))
		for i, l := range input.Lines {
			foodItemIDs[i] = l.FoodItemID
		}
		items, err := s.stock.LockForSale(ctx, foodItemIDs)
		if err != nil {
			return err
		}

		tx := &entity.Transaction{
			CashierID:        &cashier.ID,
			PaymentType:      input.PaymentType,
			TotalAmount:      decimal.Zero,
			Tax:              input.Tax,
			Discount:         input.Discount,
			PaymentReference: input.PaymentReference,
			Notes:            input.Notes,
		}
		if err := s.txRepo.Create(ctx, tx); err != nil {
			return err
		}

		lines := make([]entity.TransactionLine, 0, len(input.Lines))
		for _, l := range input.Lines {
			line := entity.TransactionLine{
				TransactionID: tx.ID,
				FoodItemID:    l.FoodItemID,
				PortionType:   l.PortionType,
				UnitPrice:     l.UnitPrice,
				Quantity:      l.Quantity,
			}
			// Lines are write-once, so the deduction runs first to fill in StockDeducted.
			if err := s.stock.Deduct(ctx, tx, &line); err != nil {
				return err
			}
			if err := s.txRepo.CreateLine(ctx, &line); err != nil {
				return err
			}
			line.FoodItem = items[l.FoodItemID]
			lines = append(lines, line)
		}
		tx.Lines = lines
		tx.TotalAmount = tx.LinesTotal().Add(tx.Tax).Sub(tx.Discount)
		if tx.TotalAmount.IsNegative() {
			return apperror.NewFieldError("discount", "cannot exceed the sale amount")
		}

		cash, credit := SplitPayment(tx.PaymentType, tx.TotalAmount, input.CashAmount, input.CreditAmount)
		if credit.IsNegative() {
			return apperror.NewFieldError("cash_amount", "cannot exceed the sale total")
		}
		if !cash.Add(credit).Equal(tx.TotalAmount) {
			return apperror.NewFieldError("cash_amount", fmt.Sprintf("cash and credit must add up to the total %s", tx.TotalAmount.StringFixed(2)))
		}

		if cash.IsPositive() {
			if _, err := s.ledger.PostCash(ctx, &CashEntryInput{
				Amount:        cash,
				Description:   fmt.Sprintf("Transaction %d (cash portion)", tx.ID),
				TransactionID: &tx.ID,
				ActorID:       &cashier.ID,
			}); err != nil {
				return err
			}
		}

		var account *entity.CreditAccount
		if credit.IsPositive() && input.LinkedAccountID != "" {
			account, err = s.ledger.CreditSale(ctx, input.LinkedAccountID, credit)
			if err != nil {
				return err
			}
			tx.CreditAccountID = &account.ID
			tx.PaymentReference = "Credit: " + account.AccountID
		}

		if err := s.txRepo.UpdateSettlement(ctx, tx.ID, &repository.SettlementUpdate{
			TotalAmount:      tx.TotalAmount,
			PaymentReference: tx.PaymentReference,
			CreditAccountID:  tx.CreditAccountID,
		}); err != nil {
			return err
		}

		payload, err := s.receipts.Build(ctx, &ReceiptInput{
			Transaction:  tx,
			Cashier:      cashier,
			Account:      account,
			CashAmount:   cash,
			CreditAmount: credit,
		})
		if err != nil {
			return err
		}
		receipt := &entity.Receipt{
			TransactionID: tx.ID,
			Token:         payload.Token,
			Payload:       datatypes.NewJSONType(payload),
		}
		if err := s.receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}
		tx.Receipt = receipt
		tx.Cashier = cashier

		s.audit.Record(ctx, AuditEntry{
			ActorID: &cashier.ID,
			Action:  AuditActionCreate,
			Model:   "Transaction",
			New: map[string]interface{}{
				"id":           tx.ID,
				"total":        tx.TotalAmount.String(),
				"payment_type": string(tx.PaymentType),
				"lines_count":  len(input.Lines),
			},
		})

		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel reverses a sale: offsetting cash book entries, the credit portion
// taken back off the account, stock returned and the sale flagged. Canceling
// an already canceled sale returns it unchanged.
func (s *TransactionService) Cancel(ctx context.Context, transactionID uint, actorID uuid.UUID) (*entity.Transaction, error) {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		tx, err := s.txRepo.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return apperror.NewNotFoundError("Transaction")
		}
		if tx.IsCanceled {
			return nil
		}

		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor == nil {
			return apperror.NewNotFoundError("User")
		}

		lines, err := s.txRepo.GetLines(ctx, tx.ID)
		if err != nil {
			return err
		}
		foodItemIDs := make([]uint, len(lines))
		for i, l := range lines {
			foodItemIDs[i] = l.FoodItemID
		}
		if _, err := s.stock.LockForReversal(ctx, foodItemIDs); err != nil {
			return err
		}

		if _, err := s.ledger.ReverseTransactionEntries(ctx, tx.ID, &actor.ID); err != nil {
			return err
		}

		if tx.PaymentType.UsesCredit() && tx.CreditAccountID != nil {
			credit, err := s.creditPortion(ctx, tx)
			if err != nil {
				return err
			}
			if credit.IsPositive() {
				_, err := s.ledger.AdjustCreditBalance(ctx, *tx.CreditAccountID, credit.Neg())
				if err != nil && !apperror.IsNotFound(err) {
					return err
				}
			}
		}

		marker := fmt.Sprintf("[CANCELED by %s at %s]", actor.Username, time.Now().Format(time.RFC3339))
		notes := marker
		if tx.Notes != "" {
			notes = tx.Notes + "\n" + marker
		}
		if err := s.txRepo.MarkCanceled(ctx, tx.ID, notes); err != nil {
			return err
		}

		if err := s.stock.Reverse(ctx, tx, lines); err != nil {
			return err
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID: &actor.ID,
			Action:  AuditActionCancel,
			Model:   "Transaction",
			Previous: map[string]interface{}{
				"id":           tx.ID,
				"total":        tx.TotalAmount.String(),
				"payment_type": string(tx.PaymentType),
			},
			New: map[string]interface{}{"is_canceled": true},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, transactionID)
}

// creditPortion is what a sale put on the account: the whole total for a
// credit sale, the amount frozen on the receipt for a mixed one.
func (s *TransactionService) creditPortion(ctx context.Context, tx *entity.Transaction) (decimal.Decimal, error) {
	if tx.PaymentType == enum.PaymentTypeCredit {
		return tx.TotalAmount, nil
	}

	receipt, err := s.receiptRepo.GetByTransactionID(ctx, tx.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if receipt == nil {
		return decimal.Zero, nil
	}
	return receipt.Payload.Data().Payment.CreditAmount, nil
}

// Get returns a sale with its lines, cashier and receipt
func (s *TransactionService) Get(ctx context.Context, id uint) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return tx, nil
}

// GetReceipt returns the stored receipt of a sale
func (s *TransactionService) GetReceipt(ctx context.Context, transactionID uint) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// GetReceiptByToken looks a receipt up by its printed token
func (s *TransactionService) GetReceiptByToken(ctx context.Context, token string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}
