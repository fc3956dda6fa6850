package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/nursery-erp/backend/internal/domain/ledger"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormEntryRepository implements EntryRepository using GORM.
// Ledger entries are append only; corrections happen through reversal
// entries, never through updates.
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Create appends an entry
func (r *GormEntryRepository) Create(ctx context.Context, entry *ledger.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByIDForTenant finds an entry by ID within a tenant
func (r *GormEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.LedgerEntry, error) {
	var entry ledger.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByCounterparty lists entries for a counterparty account
func (r *GormEntryRepository) FindByCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID, filter shared.Filter) ([]ledger.LedgerEntry, error) {
	var entries []ledger.LedgerEntry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.LedgerEntry{}).
			Where("tenant_id = ? AND counterparty_id = ?", tenantID, counterpartyID),
		filter,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDocument lists entries caused by a business document
func (r *GormEntryRepository) FindByDocument(ctx context.Context, tenantID, relatedDocumentID uuid.UUID) ([]ledger.LedgerEntry, error) {
	var entries []ledger.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND related_document_id = ?", tenantID, relatedDocumentID).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDateRange lists entries within a date range
func (r *GormEntryRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]ledger.LedgerEntry, error) {
	var entries []ledger.LedgerEntry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ledger.LedgerEntry{}).
			Where("tenant_id = ? AND entry_date >= ? AND entry_date <= ?", tenantID, start, end),
		filter,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Balance folds credits minus debits over the counterparty's entries.
// The fold runs in SQL so a balance read always sees every committed entry.
func (r *GormEntryRepository) Balance(ctx context.Context, tenantID, counterpartyID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Balance decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.LedgerEntry{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE -amount END), 0) as balance", ledger.DirectionCredit).
		Where("tenant_id = ? AND counterparty_id = ?", tenantID, counterpartyID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Balance, nil
}

// CountByCounterparty counts entries for a counterparty
func (r *GormEntryRepository) CountByCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.LedgerEntry{}).
		Where("tenant_id = ? AND counterparty_id = ?", tenantID, counterpartyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" && filter.OrderBy != "created_at" {
		orderBy := ValidateSortField(filter.OrderBy, LedgerEntrySortFields, "entry_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("entry_date DESC, created_at DESC")
	}

	return query
}

// Ensure GormEntryRepository implements EntryRepository
var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
