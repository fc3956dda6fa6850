package handler

import (
	"bytes"
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
	"github.com/nursery-erp/backend/internal/domain/catalog"
	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/nursery-erp/backend/internal/domain/production"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/nursery-erp/backend/internal/interfaces/http/dto"
)

type fakePlantRepo struct {
	plants []catalog.Plant
}

func (r *fakePlantRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Plant, error) {
	for i := range r.plants {
		if r.plants[i].TenantID == tenantID && r.plants[i].ID == id {
			plant := r.plants[i]
			return &plant, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakePlantRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Plant, error) {
	var result []catalog.Plant
	for _, p := range r.plants {
		if p.TenantID == tenantID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePlantRepo) Save(_ context.Context, plant *catalog.Plant) error {
	for i := range r.plants {
		if r.plants[i].ID == plant.ID {
			r.plants[i] = *plant
			return nil
		}
	}
	r.plants = append(r.plants, *plant)
	return nil
}

type fakeBatchRepo struct {
	batches []production.ProductionBatch
}

func (r *fakeBatchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*production.ProductionBatch, error) {
	for i := range r.batches {
		if r.batches[i].TenantID == tenantID && r.batches[i].ID == id {
			batch := r.batches[i]
			return &batch, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindLatestMatch(_ context.Context, tenantID, plantTypeID, plantVarietyID uuid.UUID, onOrBefore time.Time) (*production.ProductionBatch, error) {
	var best *production.ProductionBatch
	for i := range r.batches {
		batch := &r.batches[i]
		if batch.TenantID != tenantID || batch.PlantTypeID != plantTypeID || batch.PlantVarietyID != plantVarietyID {
			continue
		}
		if batch.StartDate.After(onOrBefore) {
			continue
		}
		if best == nil || batch.StartDate.After(best.StartDate) {
			best = batch
		}
	}
	if best == nil {
		return nil, shared.ErrNotFound
	}
	batch := *best
	return &batch, nil
}

func (r *fakeBatchRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]production.ProductionBatch, error) {
	var result []production.ProductionBatch
	for _, b := range r.batches {
		if b.TenantID == tenantID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBatchRepo) FindActiveForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]production.ProductionBatch, error) {
	var result []production.ProductionBatch
	for _, b := range r.batches {
		if b.TenantID == tenantID && b.CurrentQuantity > 0 {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBatchRepo) Save(_ context.Context, batch *production.ProductionBatch) error {
	for i := range r.batches {
		if r.batches[i].ID == batch.ID {
			r.batches[i] = *batch
			return nil
		}
	}
	r.batches = append(r.batches, *batch)
	return nil
}

func (r *fakeBatchRepo) SaveWithLock(ctx context.Context, batch *production.ProductionBatch) error {
	return r.Save(ctx, batch)
}

func setupCostingTestHandler(plantRepo *fakePlantRepo, batchRepo *fakeBatchRepo, rateRepo *fakeRateRepo) *CostingHandler {
	gin.SetMode(gin.TestMode)
	converter := inflation.NewConverter(inflation.NewResolver(rateRepo, nil))
	service := costingapp.NewCostingService(plantRepo, batchRepo, converter, nil)
	return NewCostingHandler(service)
}

func costingTestBatch(t *testing.T, tenantID, typeID, varietyID uuid.UUID, startDate time.Time, quantity int64, pool string) production.ProductionBatch {
	t.Helper()
	batch, err := production.NewProductionBatch(tenantID, typeID, varietyID, startDate, quantity)
	require.NoError(t, err)
	batch.CostPool = decimal.RequireFromString(pool)
	batch.ClearDomainEvents()
	return *batch
}

func TestCostingHandler_StartBatch(t *testing.T) {
	tenantID := uuid.New()
	batchRepo := &fakeBatchRepo{}
	h := setupCostingTestHandler(&fakePlantRepo{}, batchRepo, &fakeRateRepo{})

	body, _ := json.Marshal(costingapp.StartBatchRequest{
		PlantTypeID:     uuid.New(),
		PlantVarietyID:  uuid.New(),
		StartDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		InitialQuantity: 500,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/costing/batches", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	h.StartBatch(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    costingapp.BatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(500), resp.Data.CurrentQuantity)
	assert.Len(t, batchRepo.batches, 1)
}

func TestCostingHandler_GetBatch_NotFound(t *testing.T) {
	h := setupCostingTestHandler(&fakePlantRepo{}, &fakeBatchRepo{}, &fakeRateRepo{})
	missingID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/costing/batches/"+missingID.String(), nil)
	c.Request.Header.Set("X-Tenant-ID", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: missingID.String()}}

	h.GetBatch(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCostingHandler_AllocateCost(t *testing.T) {
	tenantID := uuid.New()
	batch := costingTestBatch(t, tenantID, uuid.New(), uuid.New(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 100, "0")
	batchRepo := &fakeBatchRepo{batches: []production.ProductionBatch{batch}}
	h := setupCostingTestHandler(&fakePlantRepo{}, batchRepo, &fakeRateRepo{})

	body := `{"amount": "250.00", "at": "2024-02-15T00:00:00Z"}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/costing/batches/"+batch.ID.String()+"/costs", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())
	c.Params = gin.Params{{Key: "id", Value: batch.ID.String()}}

	h.AllocateCost(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    costingapp.BatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.CostPool.Equal(decimal.RequireFromString("250")))
	assert.True(t, resp.Data.UnitCost.Equal(decimal.RequireFromString("2.5")))
}

func TestCostingHandler_ConsumeBatch_InsufficientQuantity(t *testing.T) {
	tenantID := uuid.New()
	batch := costingTestBatch(t, tenantID, uuid.New(), uuid.New(), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 10, "100")
	batchRepo := &fakeBatchRepo{batches: []production.ProductionBatch{batch}}
	h := setupCostingTestHandler(&fakePlantRepo{}, batchRepo, &fakeRateRepo{})

	body := `{"quantity": 25}`

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/costing/batches/"+batch.ID.String()+"/consume", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())
	c.Params = gin.Params{{Key: "id", Value: batch.ID.String()}}

	h.ConsumeBatch(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInsufficientBatch, resp.Error.Code)
}

func TestCostingHandler_MatchCost(t *testing.T) {
	tenantID := uuid.New()
	typeID := uuid.New()
	varietyID := uuid.New()

	plant, err := catalog.NewPlant(tenantID, typeID, varietyID, "Ficus benjamina")
	require.NoError(t, err)

	batch := costingTestBatch(t, tenantID, typeID, varietyID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 100, "400")

	plantRepo := &fakePlantRepo{plants: []catalog.Plant{*plant}}
	batchRepo := &fakeBatchRepo{batches: []production.ProductionBatch{batch}}
	h := setupCostingTestHandler(plantRepo, batchRepo, &fakeRateRepo{})

	body, _ := json.Marshal(costingapp.CostMatchRequest{
		PlantID:  plant.ID,
		Quantity: 5,
		SaleDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/costing/match", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	h.MatchCost(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                          `json:"success"`
		Data    costingapp.CostMatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.MatchedBatchID)
	assert.Equal(t, batch.ID, *resp.Data.MatchedBatchID)
	assert.True(t, resp.Data.UnitCost.Equal(decimal.RequireFromString("4")))
	assert.True(t, resp.Data.NominalCost.Equal(decimal.RequireFromString("20")))
}

func TestCostingHandler_MatchCost_NoBatchFallsBackToZero(t *testing.T) {
	tenantID := uuid.New()
	plant, err := catalog.NewPlant(tenantID, uuid.New(), uuid.New(), "Monstera deliciosa")
	require.NoError(t, err)

	plantRepo := &fakePlantRepo{plants: []catalog.Plant{*plant}}
	h := setupCostingTestHandler(plantRepo, &fakeBatchRepo{}, &fakeRateRepo{})

	body, _ := json.Marshal(costingapp.CostMatchRequest{
		PlantID:  plant.ID,
		Quantity: 3,
		SaleDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/costing/match", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	h.MatchCost(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                          `json:"success"`
		Data    costingapp.CostMatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Data.MatchedBatchID)
	assert.True(t, resp.Data.NominalCost.IsZero())
}

func TestCostingHandler_MatchCost_UnknownPlant(t *testing.T) {
	h := setupCostingTestHandler(&fakePlantRepo{}, &fakeBatchRepo{}, &fakeRateRepo{})

	body, _ := json.Marshal(costingapp.CostMatchRequest{
		PlantID:  uuid.New(),
		Quantity: 1,
		SaleDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/costing/match", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-Tenant-ID", uuid.New().String())

	h.MatchCost(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBusinessRule, resp.Error.Code)
}

func TestCostingHandler_ListBatches_ActiveOnly(t *testing.T) {
	tenantID := uuid.New()
	active := costingTestBatch(t, tenantID, uuid.New(), uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 50, "0")
	depleted := costingTestBatch(t, tenantID, uuid.New(), uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 50, "0")
	depleted.CurrentQuantity = 0
	batchRepo := &fakeBatchRepo{batches: []production.ProductionBatch{active, depleted}}
	h := setupCostingTestHandler(&fakePlantRepo{}, batchRepo, &fakeRateRepo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/costing/batches?active=true", nil)
	c.Request.Header.Set("X-Tenant-ID", tenantID.String())

	h.ListBatches(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                        `json:"success"`
		Data    []costingapp.BatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, active.ID, resp.Data[0].ID)
}
