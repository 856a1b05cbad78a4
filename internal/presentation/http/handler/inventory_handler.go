package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/canteen-api/internal/presentation/http/dto/response"
	"github.com/sangkips/canteen-api/pkg/pagination"
)

// InventoryHandler handles production, stock adjustments and purchase receipts
type InventoryHandler struct {
	stockService *service.StockService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(stockService *service.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// Produce makes a batch of a pre-made item from its recipe
// @Router /food-items/{id}/produce [post]
func (h *InventoryHandler) Produce(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.stockService.Produce(c.Request.Context(), &service.ProduceInput{
		FoodItemID: id,
		Quantity:   req.Quantity,
		ActorID:    GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock produced successfully", item)
}

// Adjust applies a manual ingredient stock change
// @Router /ingredients/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ingredient, err := h.stockService.AdjustManual(c.Request.Context(), &service.AdjustStockInput{
		IngredientID: id,
		Quantity:     req.Quantity,
		MovementType: enum.MovementType(req.MovementType),
		Reason:       enum.MovementReason(req.Reason),
		ActorID:      GetUserID(c),
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", ingredient)
}

// LowStock lists ingredients at or below their reorder level
// @Router /ingredients/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	ingredients, err := h.stockService.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock ingredients retrieved successfully", ingredients)
}

// Movements lists the movement history of an ingredient
// @Router /ingredients/{id}/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), id, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(movements, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Stock movements retrieved successfully", result)
}

// ReceivePurchaseOrder books the goods of a pending purchase order into stock
// @Router /purchase-orders/{id}/receive [post]
func (h *InventoryHandler) ReceivePurchaseOrder(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	po, err := h.stockService.ReceivePurchaseOrder(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase order received successfully", po)
}
