package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTokenPrefix is used when no receipt token prefix is configured
	DefaultTokenPrefix = "EECOHM"
	// ReceiptFooter closes every receipt
	ReceiptFooter = "Thank you for your purchase!"
)

// ReceiptService builds the frozen receipt payload of a sale
type ReceiptService struct {
	org         OrganizationInfoProvider
	tokenPrefix string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(org OrganizationInfoProvider, tokenPrefix string) *ReceiptService {
	if tokenPrefix == "" {
		tokenPrefix = DefaultTokenPrefix
	}
	return &ReceiptService{org: org, tokenPrefix: tokenPrefix}
}

// Token returns the public receipt token, e.g. EECOHM-2025-000042.
// It depends only on the sale's id and timestamp so it never changes.
func (s *ReceiptService) Token(tx *entity.Transaction) string {
	ts := tx.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("%s-%d-%06d", s.tokenPrefix, ts.Year(), tx.ID)
}

// ReceiptInput is everything a receipt captures at the moment of sale.
// Transaction.Lines must be loaded with their FoodItem.
type ReceiptInput struct {
	Transaction  *entity.Transaction
	Cashier      *entity.User
	Account      *entity.CreditAccount
	CashAmount   decimal.Decimal
	CreditAmount decimal.Decimal
}

// Build snapshots the sale into a receipt payload
func (s *ReceiptService) Build(ctx context.Context, input *ReceiptInput) (entity.ReceiptPayload, error) {
	org, err := s.org.Info(ctx)
	if err != nil {
		return entity.ReceiptPayload{}, fmt.Errorf("failed to load organization info: %w", err)
	}

	tx := input.Transaction
	items := make([]entity.ReceiptItem, 0, len(tx.Lines))
	for _, line := range tx.Lines {
		name := ""
		if line.FoodItem != nil {
			name = line.FoodItem.Name
		}
		items = append(items, entity.ReceiptItem{
			Name:      name,
			Portion:   string(line.PortionType),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}

	payment := entity.ReceiptPayment{
		Type:         string(tx.PaymentType),
		TotalAmount:  tx.TotalAmount,
		PaidAmount:   input.CashAmount,
		CreditAmount: input.CreditAmount,
	}
	if input.Account != nil {
		payment.Account = &entity.ReceiptAccount{
			Name:      input.Account.Name,
			AccountID: input.Account.AccountID,
			Type:      string(input.Account.AccountType),
		}
	}

	payload := entity.ReceiptPayload{
		Institution:   entity.ReceiptInstitution{Name: org.Name, Address: org.Address},
		TransactionID: tx.ID,
		Token:         s.Token(tx),
		Date:          tx.Timestamp.Format(time.RFC3339),
		Items:         items,
		Payment:       payment,
		Tax:           tx.Tax,
		Discount:      tx.Discount,
		Notes:         tx.Notes,
		Footer:        ReceiptFooter,
	}
	if input.Cashier != nil {
		payload.Cashier = entity.ReceiptCashier{
			Username: input.Cashier.Username,
			FullName: input.Cashier.FullName,
		}
	}
	return payload, nil
}
