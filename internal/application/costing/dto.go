package costing

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/production"
	"github.com/shopspring/decimal"
	"github.com/google/uuid"
)

// BatchResponse represents a production batch in API responses
type BatchResponse struct {
	ID              uuid.UUID        `json:"id"`
	PlantTypeID     uuid.UUID        `json:"plant_type_id"`
	PlantVarietyID  uuid.UUID        `json:"plant_variety_id"`
	StartDate       time.Time        `json:"start_date"`
	InitialQuantity int64            `json:"initial_quantity"`
	CurrentQuantity int64            `json:"current_quantity"`
	CostPool        decimal.Decimal  `json:"cost_pool"`
	UnitCost        decimal.Decimal  `json:"unit_cost"`
	IsDepleted      bool             `json:"is_depleted"`
	LastCostUpdate  *time.Time       `json:"last_cost_update,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// StartBatchRequest represents a request to open a new production batch
type StartBatchRequest struct {
	PlantTypeID     uuid.UUID `json:"plant_type_id" binding:"required"`
	PlantVarietyID  uuid.UUID `json:"plant_variety_id" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	InitialQuantity int64     `json:"initial_quantity" binding:"required,min=1"`
}

// AllocateCostRequest represents a request to assign a cost to a batch pool
type AllocateCostRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	At     time.Time       `json:"at"`
}

// ConsumeRequest represents a request to remove units from a batch
type ConsumeRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// CostMatchRequest represents a request to cost a sale line
type CostMatchRequest struct {
	PlantID    uuid.UUID `json:"plant_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required,min=1"`
	SaleDate   time.Time `json:"sale_date" binding:"required"`
	TargetDate time.Time `json:"target_date"`
}

// CostMatchResponse carries the matched batch and the resulting cost of
// goods sold, nominal and restated. MatchedBatchID is nil when no batch
// qualified and the cost fell back to zero. CostDate is the date the
// nominal cost is denominated in: the matched batch's start date, or the
// sale date under the zero-cost fallback.
type CostMatchResponse struct {
	MatchedBatchID *uuid.UUID      `json:"matched_batch_id,omitempty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Quantity       int64           `json:"quantity"`
	CostDate       time.Time       `json:"cost_date"`
	NominalCost    decimal.Decimal `json:"nominal_cost"`
	RealCost       decimal.Decimal `json:"real_cost"`
}

func toBatchResponse(batch *production.ProductionBatch) *BatchResponse {
	return &BatchResponse{
		ID:              batch.ID,
		PlantTypeID:     batch.PlantTypeID,
		PlantVarietyID:  batch.PlantVarietyID,
		StartDate:       batch.StartDate,
		InitialQuantity: batch.InitialQuantity,
		CurrentQuantity: batch.CurrentQuantity,
		CostPool:        batch.CostPool,
		UnitCost:        batch.UnitCost(),
		IsDepleted:      batch.IsDepleted(),
		LastCostUpdate:  batch.LastCostUpdate,
		CreatedAt:       batch.CreatedAt,
		UpdatedAt:       batch.UpdatedAt,
		Version:         batch.Version,
	}
}
