package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/nursery-erp/backend/internal/domain/production"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByIDForTenant finds a batch by ID within a tenant
func (r *GormBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.ProductionBatch, error) {
	var batch production.ProductionBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindLatestMatch finds the batch for a (type, variety) with the latest start
// date on or before the given date. Batches sharing the start date are
// tie-broken by lowest batch ID so repeated matches pick the same batch.
func (r *GormBatchRepository) FindLatestMatch(ctx context.Context, tenantID, plantTypeID, plantVarietyID uuid.UUID, onOrBefore time.Time) (*production.ProductionBatch, error) {
	var batch production.ProductionBatch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND plant_type_id = ? AND plant_variety_id = ? AND start_date <= ?",
			tenantID, plantTypeID, plantVarietyID, onOrBefore).
		Order("start_date DESC, id ASC").
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAllForTenant lists batches for a tenant
func (r *GormBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.ProductionBatch, error) {
	var batches []production.ProductionBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&production.ProductionBatch{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindActiveForTenant lists batches that still hold units
func (r *GormBatchRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.ProductionBatch, error) {
	var batches []production.ProductionBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&production.ProductionBatch{}).
			Where("tenant_id = ? AND current_quantity > 0", tenantID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *production.ProductionBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, batch *production.ProductionBatch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(map[string]interface{}{
			"current_quantity": batch.CurrentQuantity,
			"cost_pool":        batch.CostPool,
			"last_cost_update": batch.LastCostUpdate,
			"version":          batch.Version,
			"updated_at":       batch.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Production batch was modified by another transaction")
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ProductionBatchSortFields, "start_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("start_date DESC, id ASC")
	}

	return query
}

// Ensure GormBatchRepository implements BatchRepository
var _ production.BatchRepository = (*GormBatchRepository)(nil)
