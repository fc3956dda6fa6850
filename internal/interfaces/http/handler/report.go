package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/nursery-erp/backend/internal/application/report"
)

// ReportHandler handles inflation-adjusted reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ProfitAndLoss returns the nominal-vs-real statement for a period
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	var targetDate time.Time
	if raw := c.Query("target_date"); raw != "" {
		targetDate, err = parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "Invalid target_date parameter")
			return
		}
	}

	statement, err := h.reportService.ProfitAndLoss(c.Request.Context(), tenantID, reportapp.ProfitAndLossRequest{
		Start:      start,
		End:        end,
		TargetDate: targetDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}

// InflationIndexTrend returns the monthly inflation index rebased to 100
func (h *ReportHandler) InflationIndexTrend(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	points, err := h.reportService.InflationIndexTrend(c.Request.Context(), tenantID, reportapp.TrendRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, points)
}

// parsePlantTrendRequest reads the shared parameters of the per-plant trends
func (h *ReportHandler) parsePlantTrendRequest(c *gin.Context) (uuid.UUID, *reportapp.PlantTrendRequest, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, nil, false
	}

	plantID, err := uuid.Parse(c.Query("plant_id"))
	if err != nil {
		h.BadRequest(c, "Invalid plant_id parameter")
		return uuid.Nil, nil, false
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return uuid.Nil, nil, false
	}

	return tenantID, &reportapp.PlantTrendRequest{
		PlantID: plantID,
		Start:   start,
		End:     end,
	}, true
}

// CostTrend returns a plant's unit cost index against the inflation index
func (h *ReportHandler) CostTrend(c *gin.Context) {
	tenantID, req, ok := h.parsePlantTrendRequest(c)
	if !ok {
		return
	}

	points, err := h.reportService.CostTrend(c.Request.Context(), tenantID, *req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, points)
}

// PricePerformanceTrend returns a plant's nominal sale price against the
// price expected from inflation alone
func (h *ReportHandler) PricePerformanceTrend(c *gin.Context) {
	tenantID, req, ok := h.parsePlantTrendRequest(c)
	if !ok {
		return
	}

	points, err := h.reportService.PricePerformanceTrend(c.Request.Context(), tenantID, *req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, points)
}
