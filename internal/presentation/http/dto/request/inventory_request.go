package request

import "github.com/shopspring/decimal"

// ProduceRequest adds a batch of a pre-made item
type ProduceRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AdjustStockRequest is a manual ingredient stock change
type AdjustStockRequest struct {
	Quantity     decimal.Decimal `json:"quantity"`
	MovementType string          `json:"movement_type" binding:"required,oneof=IN OUT ADJUST"`
	Reason       string          `json:"reason" binding:"required"`
	Notes        string          `json:"notes"`
}
