package stock

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementRepository defines the interface for the append-only movement log
type MovementRepository interface {
	// Create appends a movement (no update or delete exists)
	Create(ctx context.Context, movement *StockMovement) error

	// FindByLocation lists movements for a (plant, warehouse) key
	FindByLocation(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByDocument lists movements caused by a business document
	FindByDocument(ctx context.Context, tenantID, relatedDocumentID uuid.UUID) ([]StockMovement, error)

	// FindByDateRange lists movements within a date range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockMovement, error)

	// CountForTenant counts movements for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// LevelRepository defines the interface for the materialized level projection.
//
// ApplyDelta is the one true critical section of the stock ledger: it must be
// a single conditional store operation ("adjust if the result stays >= 0") so
// that two concurrent decrements of the same key can never both pass the
// guard. Implementations return shared.ErrInsufficientStock when the guard
// rejects the delta, without touching the row.
type LevelRepository interface {
	// GetQuantity returns the on-hand quantity for a key, zero if no row exists
	GetQuantity(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID) (int64, error)

	// ApplyDelta atomically adjusts the quantity, failing with
	// shared.ErrInsufficientStock if the result would be negative
	ApplyDelta(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID, delta int64) error

	// FindAllForTenant lists level rows for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// FindByWarehouse lists level rows in a warehouse
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockLevel, error)
}
