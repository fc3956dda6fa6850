package persistence

import (
	"context"
	"errors"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/nursery-erp/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLevelRepository implements LevelRepository using GORM
type GormLevelRepository struct {
	db *gorm.DB
}

// NewGormLevelRepository creates a new GormLevelRepository
func NewGormLevelRepository(db *gorm.DB) *GormLevelRepository {
	return &GormLevelRepository{db: db}
}

// GetQuantity returns the on-hand quantity for a key, zero if no row exists
func (r *GormLevelRepository) GetQuantity(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID) (int64, error) {
	var level stock.StockLevel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND plant_id = ? AND warehouse_id = ?", tenantID, plantID, warehouseID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return level.Quantity, nil
}

// ApplyDelta atomically adjusts the quantity for a key. The adjustment and
// the non-negative guard are one conditional UPDATE, so two concurrent
// decrements of the same key can never both pass the guard: the second one
// sees the already-decremented row and affects zero rows.
func (r *GormLevelRepository) ApplyDelta(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&stock.StockLevel{}).
		Where("tenant_id = ? AND plant_id = ? AND warehouse_id = ? AND quantity + ? >= 0",
			tenantID, plantID, warehouseID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Zero rows affected means either the guard rejected the delta or no
	// level row exists yet for this key. A missing row holds zero units,
	// so a negative delta is insufficient either way.
	if delta < 0 {
		return shared.ErrInsufficientStock
	}

	// First inbound movement for this key: insert the row. ON CONFLICT
	// handles the race where another transaction inserts it first.
	level := stock.NewStockLevel(tenantID, plantID, warehouseID)
	level.Quantity = delta

	insert := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "plant_id"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(level)
	if insert.Error != nil {
		return insert.Error
	}
	if insert.RowsAffected > 0 {
		return nil
	}

	// Lost the insert race: the row exists now, retry the conditional update.
	retry := r.db.WithContext(ctx).
		Model(&stock.StockLevel{}).
		Where("tenant_id = ? AND plant_id = ? AND warehouse_id = ? AND quantity + ? >= 0",
			tenantID, plantID, warehouseID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if retry.Error != nil {
		return retry.Error
	}
	if retry.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// FindAllForTenant lists level rows for a tenant
func (r *GormLevelRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockLevel, error) {
	var levels []stock.StockLevel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockLevel{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByWarehouse lists level rows in a warehouse
func (r *GormLevelRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]stock.StockLevel, error) {
	var levels []stock.StockLevel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockLevel{}).
			Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID),
		filter,
	)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// applyFilter applies filter options to the query
func (r *GormLevelRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StockLevelSortFields, "plant_id")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("plant_id ASC, warehouse_id ASC")
	}

	return query
}

// Ensure GormLevelRepository implements LevelRepository
var _ stock.LevelRepository = (*GormLevelRepository)(nil)
