package request

import "github.com/shopspring/decimal"

// AccountMovementRequest is a manual charge or payment on a credit account
type AccountMovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"max=255"`
}

// VendorTransactionRequest records goods on account or a payment to a vendor
type VendorTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type" binding:"required,oneof=CREDIT DEBIT"`
	Reference       string          `json:"reference" binding:"max=100"`
	Notes           string          `json:"notes"`
}
