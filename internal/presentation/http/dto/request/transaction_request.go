package request

import "github.com/shopspring/decimal"

// TransactionLineRequest is one ordered line of a sale
type TransactionLineRequest struct {
	FoodItemID  uint            `json:"food_item_id" binding:"required"`
	PortionType string          `json:"portion_type" binding:"required,oneof=full half"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
}

// CreateTransactionRequest represents a sale rung up at the till
type CreateTransactionRequest struct {
	PaymentType      string                   `json:"payment_type" binding:"required,oneof=cash credit mixed"`
	Lines            []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
	Tax              decimal.Decimal          `json:"tax"`
	Discount         decimal.Decimal          `json:"discount"`
	LinkedAccountID  string                   `json:"linked_account_id" binding:"max=50"`
	CashAmount       *decimal.Decimal         `json:"cash_amount"`
	CreditAmount     *decimal.Decimal         `json:"credit_amount"`
	PaymentReference string                   `json:"payment_reference" binding:"max=100"`
	Notes            string                   `json:"notes"`
}
