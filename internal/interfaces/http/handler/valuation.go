package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	valuationapp "github.com/nursery-erp/backend/internal/application/valuation"
)

// ValuationHandler handles inflation rate and restatement API endpoints
type ValuationHandler struct {
	BaseHandler
	valuationService *valuationapp.ValuationService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(valuationService *valuationapp.ValuationService) *ValuationHandler {
	return &ValuationHandler{
		valuationService: valuationService,
	}
}

// UpsertRate records or corrects the inflation rate of one month
func (h *ValuationHandler) UpsertRate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req valuationapp.UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rate, err := h.valuationService.UpsertRate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}

// ListRates lists the stored monthly rates of the tenant
func (h *ValuationHandler) ListRates(c *gin.Context) {
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

	rates, err := h.valuationService.ListRates(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, rates, int64(len(rates)), filter.Page, filter.PageSize)
}

// ResolveRate resolves the rate applicable to a month, applying the
// carry-back fallback when the month has no stored rate
func (h *ValuationHandler) ResolveRate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.BadRequest(c, "Invalid year parameter")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		h.BadRequest(c, "Invalid month parameter")
		return
	}

	resolved, err := h.valuationService.ResolveMonthlyRate(c.Request.Context(), tenantID, year, month)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resolved)
}

// RealValue restates a nominal amount from its value date to a target date
func (h *ValuationHandler) RealValue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req valuationapp.RealValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.valuationService.RealValue(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
