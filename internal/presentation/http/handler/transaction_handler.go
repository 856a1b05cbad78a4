package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/response"
)

// TransactionHandler handles sale-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create rings up a sale
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body request.CreateTransactionRequest true "Sale"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	lines := make([]service.TransactionLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, service.TransactionLineInput{
			FoodItemID:  l.FoodItemID,
			PortionType: enum.PortionType(l.PortionType),
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		})
	}

	tx, err := h.transactionService.Create(c.Request.Context(), &service.CreateTransactionInput{
		CashierID:        *userID,
		PaymentType:      enum.PaymentType(req.PaymentType),
		Lines:            lines,
		Tax:              req.Tax,
		Discount:         req.Discount,
		LinkedAccountID:  req.LinkedAccountID,
		CashAmount:       req.CashAmount,
		CreditAmount:     req.CreditAmount,
		PaymentReference: req.PaymentReference,
		Notes:            req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", tx)
}

// Get returns a sale with its lines and receipt
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	tx, err := h.transactionService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", tx)
}

// Cancel voids a sale. Canceling twice is not an error.
// @Router /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	tx, err := h.transactionService.Cancel(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction canceled successfully", tx)
}

// GetReceipt returns the stored receipt of a sale
// @Router /transactions/{id}/receipt [get]
func (h *TransactionHandler) GetReceipt(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	receipt, err := h.transactionService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// GetReceiptByToken looks a receipt up by its printed token
// @Router /receipts/{token} [get]
func (h *TransactionHandler) GetReceiptByToken(c *gin.Context) {
	receipt, err := h.transactionService.GetReceiptByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}
