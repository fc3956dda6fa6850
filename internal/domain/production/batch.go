package production

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/nursery-erp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionBatch represents a production run of a single (type, variety)
// started on a given date. It is the aggregate root for cost pooling: every
// cost assigned to the batch accumulates in the pool, and the weighted-average
// unit cost is the pool divided by the units still in the batch.
//
// The pool only grows; the quantity only shrinks. Consuming units does not
// remove cost from the pool, so the unit cost of the remaining units rises as
// the batch drains - this mirrors how nursery production costs (soil, labor,
// irrigation) keep accruing against the surviving plants.
type ProductionBatch struct {
	shared.TenantAggregateRoot
	PlantTypeID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_type_variety,priority:2"`
	PlantVarietyID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_type_variety,priority:3"`
	StartDate       time.Time       `gorm:"type:date;not null;index"`
	InitialQuantity int64           `gorm:"not null"`
	CurrentQuantity int64           `gorm:"not null"`
	CostPool        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastCostUpdate  *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (ProductionBatch) TableName() string {
	return "production_batches"
}

// NewProductionBatch creates a batch at production start
func NewProductionBatch(tenantID, plantTypeID, plantVarietyID uuid.UUID, startDate time.Time, initialQuantity int64) (*ProductionBatch, error) {
	if plantTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLANT_TYPE", "Plant type ID cannot be empty")
	}
	if plantVarietyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLANT_VARIETY", "Plant variety ID cannot be empty")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}
	if initialQuantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity must be positive")
	}

	batch := &ProductionBatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlantTypeID:         plantTypeID,
		PlantVarietyID:      plantVarietyID,
		StartDate:           startDate,
		InitialQuantity:     initialQuantity,
		CurrentQuantity:     initialQuantity,
		CostPool:            decimal.Zero,
	}
	batch.AddDomainEvent(NewBatchStartedEvent(batch))

	return batch, nil
}

// AddCost assigns a cost to the batch's pool. The pool is append-only:
// corrections are modeled as new cost assignments, never as removals.
func (b *ProductionBatch) AddCost(cost valueobject.Money, at time.Time) error {
	if !cost.IsPositive() {
		return shared.NewDomainError("INVALID_COST", "Assigned cost must be positive")
	}
	if at.IsZero() {
		at = time.Now()
	}

	b.CostPool = b.CostPool.Add(cost.Amount())
	b.LastCostUpdate = &at
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewCostAllocatedEvent(b, cost.Amount()))
	return nil
}

// Consume removes units from the batch (harvest, sale, wastage).
// The quantity never goes below zero.
func (b *ProductionBatch) Consume(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumed quantity must be positive")
	}
	if quantity > b.CurrentQuantity {
		return shared.NewDomainError("INSUFFICIENT_BATCH_QUANTITY", "Batch does not hold enough units")
	}

	b.CurrentQuantity -= quantity
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchConsumedEvent(b, quantity))
	if b.CurrentQuantity == 0 {
		b.AddDomainEvent(NewBatchDepletedEvent(b))
	}
	return nil
}

// UnitCost returns the weighted-average cost of one remaining unit, rounded
// to 2 decimals half up. Undefined for an empty batch: callers treat the
// zero result as a reporting approximation and log a warning.
func (b *ProductionBatch) UnitCost() decimal.Decimal {
	if b.CurrentQuantity <= 0 {
		return decimal.Zero
	}
	return b.CostPool.DivRound(decimal.NewFromInt(b.CurrentQuantity), 2)
}

// IsDepleted returns true once every unit has been consumed
func (b *ProductionBatch) IsDepleted() bool {
	return b.CurrentQuantity == 0
}
