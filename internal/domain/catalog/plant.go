package catalog

import (
	"context"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Plant is the sellable plant record: a concrete (type, variety) pairing as
// listed in the tenant's catalog. Catalog maintenance lives outside this
// engine; the valuation core only needs an explicit, tenant-scoped lookup to
// resolve a sold plant to the (type, variety) key used for batch matching.
type Plant struct {
	shared.TenantAggregateRoot
	PlantTypeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PlantVarietyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (Plant) TableName() string {
	return "plants"
}

// NewPlant creates a catalog plant record
func NewPlant(tenantID, plantTypeID, plantVarietyID uuid.UUID, name string) (*Plant, error) {
	if plantTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLANT_TYPE", "Plant type ID cannot be empty")
	}
	if plantVarietyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLANT_VARIETY", "Plant variety ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plant name cannot be empty")
	}

	return &Plant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PlantTypeID:         plantTypeID,
		PlantVarietyID:      plantVarietyID,
		Name:                name,
	}, nil
}

// PlantRepository defines the interface for plant lookups.
// No ambient reference resolution: callers get plain value objects.
type PlantRepository interface {
	// FindByIDForTenant finds a plant by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Plant, error)

	// FindAllForTenant lists plants for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Plant, error)

	// Save creates or updates a plant
	Save(ctx context.Context, plant *Plant) error
}
