package handler

import (
	stockapp "github.com/brokersuite/backend/internal/application/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// RecordMovement godoc
// @Summary      Record a stock movement
// @Description  Appends a movement to the ledger and returns the resulting balance
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body stockapp.RecordMovementRequest true "Movement to record"
// @Success      201 {object} dto.Response{data=stockapp.RecordMovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/movements [post]
func (h *StockHandler) RecordMovement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req stockapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.stockService.RecordMovement(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetMovement godoc
// @Summary      Get a stock movement by ID
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Movement ID" format(uuid)
// @Success      200 {object} dto.Response{data=stockapp.MovementResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/movements/{id} [get]
func (h *StockHandler) GetMovement(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID format")
		return
	}

	movement, err := h.stockService.GetMovement(c.Request.Context(), tenantID, movementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movement)
}

// ListMovements godoc
// @Summary      List stock movements
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        movement_type query string false "Movement type"
// @Param        intervention_id query string false "Field intervention ID" format(uuid)
// @Param        from query string false "Occurred on or after" format(date)
// @Param        to query string false "Occurred on or before" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]stockapp.MovementResponse,meta=dto.Meta}
// @Router       /stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter stockapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	movements, total, err := h.stockService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// GetBalance godoc
// @Summary      Get the balance of a product in a warehouse
// @Description  Balance and valuation are derived from the movement ledger
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=stockapp.BalanceResponse}
// @Router       /stock/warehouses/{warehouse_id}/products/{product_id}/balance [get]
func (h *StockHandler) GetBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	balance, err := h.stockService.GetBalance(c.Request.Context(), tenantID, productID, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}

// WarehouseBalances godoc
// @Summary      List all product balances of a warehouse
// @Tags         stock
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        warehouse_id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]stockapp.BalanceResponse}
// @Router       /stock/warehouses/{warehouse_id}/balances [get]
func (h *StockHandler) WarehouseBalances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	warehouseID, err := uuid.Parse(c.Param("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	balances, err := h.stockService.WarehouseBalances(c.Request.Context(), tenantID, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balances)
}
