package persistence

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/nursery-erp/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// The movement log is append only: the interface exposes no update or
// delete, and neither does this implementation.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement
func (r *GormMovementRepository) Create(ctx context.Context, movement *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByLocation lists movements for a (plant, warehouse) key
func (r *GormMovementRepository) FindByLocation(ctx context.Context, tenantID, plantID, warehouseID uuid.UUID, filter shared.Filter) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockMovement{}).
			Where("tenant_id = ? AND plant_id = ? AND warehouse_id = ?", tenantID, plantID, warehouseID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDocument lists movements caused by a business document
func (r *GormMovementRepository) FindByDocument(ctx context.Context, tenantID, relatedDocumentID uuid.UUID) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND related_document_id = ?", tenantID, relatedDocumentID).
		Order("movement_date ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDateRange lists movements within a date range
func (r *GormMovementRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]stock.StockMovement, error) {
	var movements []stock.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockMovement{}).
			Where("tenant_id = ? AND movement_date >= ? AND movement_date <= ?", tenantID, start, end),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountForTenant counts movements for a tenant
func (r *GormMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.StockMovement{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StockMovementSortFields, "movement_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("movement_date DESC, created_at DESC")
	}

	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ stock.MovementRepository = (*GormMovementRepository)(nil)
