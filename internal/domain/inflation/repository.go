package inflation

import (
	"context"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RateRepository defines the interface for inflation rate persistence.
// All lookups are tenant-scoped; the storage layer enforces uniqueness
// per (tenant, year, month).
type RateRepository interface {
	// FindByMonth finds the exact rate for a (year, month), or shared.ErrNotFound
	FindByMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (*InflationRate, error)

	// FindLatestOnOrBefore finds the most recent rate whose month is on or
	// before the given (year, month), or shared.ErrNotFound
	FindLatestOnOrBefore(ctx context.Context, tenantID uuid.UUID, year, month int) (*InflationRate, error)

	// FindRange finds all rates between (fromYear, fromMonth) and
	// (toYear, toMonth) inclusive, ordered by month ascending
	FindRange(ctx context.Context, tenantID uuid.UUID, fromYear, fromMonth, toYear, toMonth int) ([]InflationRate, error)

	// FindAllForTenant lists rates for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InflationRate, error)

	// Save creates or updates a rate entry
	Save(ctx context.Context, rate *InflationRate) error

	// ExistsByMonth checks whether a rate exists for (tenant, year, month)
	ExistsByMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (bool, error)
}
