package persistence

import (
	"context"
	"errors"

	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRateRepository implements RateRepository using GORM
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// FindByMonth finds the exact rate entry for a (year, month)
func (r *GormRateRepository) FindByMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (*inflation.InflationRate, error) {
	var rate inflation.InflationRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND year = ? AND month = ?", tenantID, year, month).
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindLatestOnOrBefore finds the most recent rate on or before (year, month).
// Months are compared on the year*12+month ordinal so December to January
// boundaries sort correctly.
func (r *GormRateRepository) FindLatestOnOrBefore(ctx context.Context, tenantID uuid.UUID, year, month int) (*inflation.InflationRate, error) {
	var rate inflation.InflationRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (year * 12 + month) <= ?", tenantID, year*12+month).
		Order("year DESC, month DESC").
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindRange finds all rates between (fromYear, fromMonth) and (toYear, toMonth)
// inclusive, ordered by month ascending
func (r *GormRateRepository) FindRange(ctx context.Context, tenantID uuid.UUID, fromYear, fromMonth, toYear, toMonth int) ([]inflation.InflationRate, error) {
	var rates []inflation.InflationRate
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (year * 12 + month) BETWEEN ? AND ?",
			tenantID, fromYear*12+fromMonth, toYear*12+toMonth).
		Order("year ASC, month ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindAllForTenant lists rates for a tenant
func (r *GormRateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inflation.InflationRate, error) {
	var rates []inflation.InflationRate
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inflation.InflationRate{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Save creates or updates a rate entry
func (r *GormRateRepository) Save(ctx context.Context, rate *inflation.InflationRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// ExistsByMonth checks whether a rate exists for (tenant, year, month)
func (r *GormRateRepository) ExistsByMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inflation.InflationRate{}).
		Where("tenant_id = ? AND year = ? AND month = ?", tenantID, year, month).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormRateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	switch filter.OrderBy {
	case "", "period":
		query = query.Order("year ASC, month ASC")
	default:
		orderBy := ValidateSortField(filter.OrderBy, InflationRateSortFields, "year")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	}

	return query
}

// Ensure GormRateRepository implements RateRepository
var _ inflation.RateRepository = (*GormRateRepository)(nil)
