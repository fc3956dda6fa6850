package stock

import (
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockLevel is the materialized on-hand quantity per (tenant, plant,
// warehouse). It is a projection of the movement log: the running sum of
// signed movement quantities for that key. The projection is updated in the
// same transaction that appends the movement, guarded so it can never go
// negative.
type StockLevel struct {
	shared.BaseEntity
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:1"`
	PlantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:2"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_key,priority:3"`
	Quantity    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates an empty level row for a location key
func NewStockLevel(tenantID, plantID, warehouseID uuid.UUID) *StockLevel {
	return &StockLevel{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		PlantID:     plantID,
		WarehouseID: warehouseID,
		Quantity:    0,
	}
}
