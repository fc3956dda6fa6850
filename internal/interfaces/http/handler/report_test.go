package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	costingapp "github.com/nursery-erp/backend/internal/application/costing"
	reportapp "github.com/nursery-erp/backend/internal/application/report"
	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/nursery-erp/backend/internal/interfaces/http/dto"
)

type fakeSalesReader struct {
	lines []reportapp.SaleLine
}

func (r *fakeSalesReader) SaleLines(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]reportapp.SaleLine, error) {
	return r.lines, nil
}

type fakeExpenseReader struct {
	lines []reportapp.ExpenseLine
}

func (r *fakeExpenseReader) ExpenseLines(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]reportapp.ExpenseLine, error) {
	return r.lines, nil
}

type fakeCostMatcher struct {
	response costingapp.CostMatchResponse
}

func (m *fakeCostMatcher) MatchCostForSale(_ context.Context, _ uuid.UUID, req costingapp.CostMatchRequest) (*costingapp.CostMatchResponse, error) {
	resp := m.response
	resp.Quantity = req.Quantity
	return &resp, nil
}

func setupReportTestHandler(sales *fakeSalesReader, expenses *fakeExpenseReader, matcher *fakeCostMatcher, rateRepo *fakeRateRepo) *ReportHandler {
	gin.SetMode(gin.TestMode)
	resolver := inflation.NewResolver(rateRepo, nil)
	service := reportapp.NewReportService(sales, expenses, matcher, resolver, nil)
	return NewReportHandler(service)
}

func TestReportHandler_ProfitAndLoss(t *testing.T) {
	tenantID := uuid.New()
	sales := &fakeSalesReader{lines: []reportapp.SaleLine{
		{
			PlantID:  uuid.New(),
			Quantity: 5,
			Revenue:  decimal.RequireFromString("100"),
			SaleDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}}
	expenses := &fakeExpenseReader{lines: []reportapp.ExpenseLine{
		{
			Amount:      decimal.RequireFromString("10"),
			Category:    "utilities",
			ExpenseDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		},
	}}
	matcher := &fakeCostMatcher{response: costingapp.CostMatchResponse{
		NominalCost: decimal.RequireFromString("40"),
		RealCost:    decimal.RequireFromString("40"),
	}}
	h := setupReportTestHandler(sales, expenses, matcher, &fakeRateRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet,
		"/reports/profit-and-loss?start=2024-01-01&end=2024-01-31&target_date=2024-01-31", nil)
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	h.ProfitAndLoss(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                            `json:"success"`
		Data    reportapp.ProfitAndLossResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Revenue.Nominal.Equal(decimal.RequireFromString("100")))
	assert.True(t, resp.Data.COGS.Nominal.Equal(decimal.RequireFromString("40")))
	assert.True(t, resp.Data.GrossProfit.Nominal.Equal(decimal.RequireFromString("60")))
	assert.True(t, resp.Data.NetProfit.Nominal.Equal(decimal.RequireFromString("50")))
}

func TestReportHandler_ProfitAndLoss_InvalidPeriod(t *testing.T) {
	h := setupReportTestHandler(&fakeSalesReader{}, &fakeExpenseReader{}, &fakeCostMatcher{}, &fakeRateRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet,
		"/reports/profit-and-loss?start=2024-03-01&end=2024-01-01", nil)
	c.Request.Header.Set("X-Tenant-ID", uuid.New().String())

	h.ProfitAndLoss(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestReportHandler_ProfitAndLoss_MissingRange(t *testing.T) {
	h := setupReportTestHandler(&fakeSalesReader{}, &fakeExpenseReader{}, &fakeCostMatcher{}, &fakeRateRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/reports/profit-and-loss", nil)
	c.Request.Header.Set("X-Tenant-ID", uuid.New().String())

	h.ProfitAndLoss(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_InflationIndexTrend(t *testing.T) {
	tenantID := uuid.New()
	rateRepo := &fakeRateRepo{rates: []inflation.InflationRate{
		valuationTestRate(tenantID, 2024, 1, "0.10"),
		valuationTestRate(tenantID, 2024, 2, "0.20"),
	}}
	h := setupReportTestHandler(&fakeSalesReader{}, &fakeExpenseReader{}, &fakeCostMatcher{}, rateRepo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet,
		"/reports/inflation-index?start=2024-01-01&end=2024-03-31", nil)
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	h.InflationIndexTrend(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Data    []reportapp.IndexPoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 3)
	assert.True(t, resp.Data[0].Index.Equal(decimal.RequireFromString("100")))
	assert.True(t, resp.Data[1].Index.Equal(decimal.RequireFromString("110")))
	assert.True(t, resp.Data[2].Index.Equal(decimal.RequireFromString("132")))
}
