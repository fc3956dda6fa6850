package production

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProductionBatch = "ProductionBatch"

// Event type constants
const (
	EventTypeBatchStarted  = "BatchStarted"
	EventTypeCostAllocated = "CostAllocated"
	EventTypeBatchConsumed = "BatchConsumed"
	EventTypeBatchDepleted = "BatchDepleted"
)

// BatchStartedEvent is raised when a production batch is created
type BatchStartedEvent struct {
	shared.BaseDomainEvent
	PlantTypeID     uuid.UUID `json:"plant_type_id"`
	PlantVarietyID  uuid.UUID `json:"plant_variety_id"`
	StartDate       time.Time `json:"start_date"`
	InitialQuantity int64     `json:"initial_quantity"`
}

// NewBatchStartedEvent creates a new BatchStartedEvent
func NewBatchStartedEvent(batch *ProductionBatch) *BatchStartedEvent {
	return &BatchStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchStarted, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		PlantTypeID:     batch.PlantTypeID,
		PlantVarietyID:  batch.PlantVarietyID,
		StartDate:       batch.StartDate,
		InitialQuantity: batch.InitialQuantity,
	}
}

// EventType returns the event type name
func (e *BatchStartedEvent) EventType() string {
	return EventTypeBatchStarted
}

// CostAllocatedEvent is raised when a cost is assigned to the batch pool
type CostAllocatedEvent struct {
	shared.BaseDomainEvent
	Amount   decimal.Decimal `json:"amount"`
	CostPool decimal.Decimal `json:"cost_pool"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// NewCostAllocatedEvent creates a new CostAllocatedEvent
func NewCostAllocatedEvent(batch *ProductionBatch, amount decimal.Decimal) *CostAllocatedEvent {
	return &CostAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCostAllocated, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		Amount:          amount,
		CostPool:        batch.CostPool,
		UnitCost:        batch.UnitCost(),
	}
}

// EventType returns the event type name
func (e *CostAllocatedEvent) EventType() string {
	return EventTypeCostAllocated
}

// BatchConsumedEvent is raised when units leave the batch
type BatchConsumedEvent struct {
	shared.BaseDomainEvent
	Quantity          int64 `json:"quantity"`
	RemainingQuantity int64 `json:"remaining_quantity"`
}

// NewBatchConsumedEvent creates a new BatchConsumedEvent
func NewBatchConsumedEvent(batch *ProductionBatch, quantity int64) *BatchConsumedEvent {
	return &BatchConsumedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeBatchConsumed, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		Quantity:          quantity,
		RemainingQuantity: batch.CurrentQuantity,
	}
}

// EventType returns the event type name
func (e *BatchConsumedEvent) EventType() string {
	return EventTypeBatchConsumed
}

// BatchDepletedEvent is raised when the last unit leaves the batch
type BatchDepletedEvent struct {
	shared.BaseDomainEvent
	CostPool decimal.Decimal `json:"cost_pool"`
}

// NewBatchDepletedEvent creates a new BatchDepletedEvent
func NewBatchDepletedEvent(batch *ProductionBatch) *BatchDepletedEvent {
	return &BatchDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchDepleted, AggregateTypeProductionBatch, batch.ID, batch.TenantID),
		CostPool:        batch.CostPool,
	}
}

// EventType returns the event type name
func (e *BatchDepletedEvent) EventType() string {
	return EventTypeBatchDepleted
}
