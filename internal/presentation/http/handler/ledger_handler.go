package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles credit account and vendor balance movements
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Charge adds to what an account holder owes
// @Router /credit-accounts/{id}/charge [post]
func (h *LedgerHandler) Charge(c *gin.Context) {
	h.accountMovement(c, h.ledgerService.Charge, "Account charged successfully")
}

// Payment records money received from an account holder
// @Router /credit-accounts/{id}/payment [post]
func (h *LedgerHandler) Payment(c *gin.Context) {
	h.accountMovement(c, h.ledgerService.Pay, "Payment recorded successfully")
}

type accountMovementFunc func(ctx context.Context, input *service.AccountMovementInput) (*service.AccountMovementResult, error)

func (h *LedgerHandler) accountMovement(c *gin.Context, apply accountMovementFunc, message string) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.AccountMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := apply(c.Request.Context(), &service.AccountMovementInput{
		AccountPK:   id,
		Amount:      req.Amount,
		Description: req.Description,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, result)
}

// VendorTransaction records goods on account or a payment to a vendor
// @Router /vendors/{id}/transactions [post]
func (h *LedgerHandler) VendorTransaction(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.VendorTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	vt, err := h.ledgerService.RecordVendorTransaction(c.Request.Context(), &service.VendorTransactionInput{
		VendorID:  id,
		Amount:    req.Amount,
		Type:      enum.VendorTransactionType(req.TransactionType),
		Reference: req.Reference,
		ActorID:   GetUserID(c),
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Vendor transaction recorded successfully", vt)
}
