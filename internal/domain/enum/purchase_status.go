package enum

// PurchaseOrderStatus represents the lifecycle of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderCancelled PurchaseOrderStatus = "CANCELLED"
)

// PurchasePaymentMethod is how a purchase order is settled with the vendor
type PurchasePaymentMethod string

const (
	PurchasePaymentCredit PurchasePaymentMethod = "CREDIT"
	PurchasePaymentCash   PurchasePaymentMethod = "CASH"
)
