package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stockapp "github.com/nursery-erp/backend/internal/application/stock"
)

// StockHandler handles stock movement and on-hand level API endpoints
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

// ChangeStock records a signed stock movement and updates the on-hand level
func (h *StockHandler) ChangeStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req stockapp.ChangeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActorID == nil {
		req.ActorID = getActorID(c)
	}

	result, err := h.stockService.ChangeStock(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Transfer moves units between two warehouses as a movement pair
func (h *StockHandler) Transfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req stockapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ActorID == nil {
		req.ActorID = getActorID(c)
	}

	result, err := h.stockService.Transfer(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// CurrentQuantity returns the on-hand quantity at one location
func (h *StockHandler) CurrentQuantity(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	plantID, err := uuid.Parse(c.Query("plant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid plant_id parameter")
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse_id parameter")
		return
	}

	quantity, err := h.stockService.CurrentQuantity(c.Request.Context(), tenantID, plantID, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"plant_id":     plantID,
		"warehouse_id": warehouseID,
		"quantity":     quantity,
	})
}

// ListLevels lists the on-hand levels of the tenant
func (h *StockHandler) ListLevels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	levels, err := h.stockService.ListLevels(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, levels, int64(len(levels)), filter.Page, filter.PageSize)
}

// ListMovements lists movements, either per location or per date range
func (h *StockHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	if c.Query("start") != "" || c.Query("end") != "" {
		start, end, err := parseDateRange(c)
		if err != nil {
			h.BadRequest(c, "Invalid date range")
			return
		}
		movements, err := h.stockService.MovementsInRange(c.Request.Context(), tenantID, start, end, filter)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.SuccessWithMeta(c, movements, int64(len(movements)), filter.Page, filter.PageSize)
		return
	}

	plantID, err := uuid.Parse(c.Query("plant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid plant_id parameter")
		return
	}
	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse_id parameter")
		return
	}

	movements, err := h.stockService.MovementHistory(c.Request.Context(), tenantID, plantID, warehouseID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, int64(len(movements)), filter.Page, filter.PageSize)
}

// MovementsForDocument lists the movements recorded for one source document
func (h *StockHandler) MovementsForDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	movements, err := h.stockService.MovementsForDocument(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}
