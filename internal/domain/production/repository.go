package production

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository defines the interface for production batch persistence
type BatchRepository interface {
	// FindByIDForTenant finds a batch by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProductionBatch, error)

	// FindLatestMatch finds the batch for a (type, variety) with the latest
	// start date on or before the given date. Batches sharing the start date
	// are tie-broken by lowest batch ID so selection stays deterministic.
	// Returns shared.ErrNotFound when no batch qualifies.
	FindLatestMatch(ctx context.Context, tenantID, plantTypeID, plantVarietyID uuid.UUID, onOrBefore time.Time) (*ProductionBatch, error)

	// FindAllForTenant lists batches for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductionBatch, error)

	// FindActiveForTenant lists batches that still hold units
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductionBatch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *ProductionBatch) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, batch *ProductionBatch) error
}
