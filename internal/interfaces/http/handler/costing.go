package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	costingapp "github.com/nursery-erp/backend/internal/application/costing"
)

// CostingHandler handles production batch and cost matching API endpoints
type CostingHandler struct {
	BaseHandler
	costingService *costingapp.CostingService
}

// NewCostingHandler creates a new CostingHandler
func NewCostingHandler(costingService *costingapp.CostingService) *CostingHandler {
	return &CostingHandler{
		costingService: costingService,
	}
}

// StartBatch opens a new production batch
func (h *CostingHandler) StartBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req costingapp.StartBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.costingService.StartBatch(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, batch)
}

// GetBatch retrieves a production batch by ID
func (h *CostingHandler) GetBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	batch, err := h.costingService.GetBatch(c.Request.Context(), tenantID, batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// ListBatches lists production batches for the tenant
func (h *CostingHandler) ListBatches(c *gin.Context) {
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

	var batches []costingapp.BatchResponse
	if c.Query("active") == "true" {
		batches, err = h.costingService.ListActiveBatches(c.Request.Context(), tenantID, filter)
	} else {
		batches, err = h.costingService.ListBatches(c.Request.Context(), tenantID, filter)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, int64(len(batches)), filter.Page, filter.PageSize)
}

// AllocateCost assigns an expense to a batch cost pool
func (h *CostingHandler) AllocateCost(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req costingapp.AllocateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.costingService.AllocateCost(c.Request.Context(), tenantID, batchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// ConsumeBatch removes units from a batch without touching its cost pool
func (h *CostingHandler) ConsumeBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req costingapp.ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.costingService.ConsumeFromBatch(c.Request.Context(), tenantID, batchID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batch)
}

// MatchCost resolves the cost of goods sold for a sale line
func (h *CostingHandler) MatchCost(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req costingapp.CostMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	match, err := h.costingService.MatchCostForSale(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, match)
}
