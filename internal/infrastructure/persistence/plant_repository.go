package persistence

import (
	"context"
	"errors"

	"github.com/nursery-erp/backend/internal/domain/catalog"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlantRepository implements PlantRepository using GORM
type GormPlantRepository struct {
	db *gorm.DB
}

// NewGormPlantRepository creates a new GormPlantRepository
func NewGormPlantRepository(db *gorm.DB) *GormPlantRepository {
	return &GormPlantRepository{db: db}
}

// FindByIDForTenant finds a plant by ID within a tenant
func (r *GormPlantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Plant, error) {
	var plant catalog.Plant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&plant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plant, nil
}

// FindAllForTenant lists plants for a tenant
func (r *GormPlantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Plant, error) {
	var plants []catalog.Plant
	query := r.db.WithContext(ctx).Model(&catalog.Plant{}).
		Where("tenant_id = ?", tenantID)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, PlantSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	if err := query.Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

// Save creates or updates a plant
func (r *GormPlantRepository) Save(ctx context.Context, plant *catalog.Plant) error {
	return r.db.WithContext(ctx).Save(plant).Error
}

// Ensure GormPlantRepository implements PlantRepository
var _ catalog.PlantRepository = (*GormPlantRepository)(nil)
