package ledger

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryRepository defines the interface for the append-only account ledger
type EntryRepository interface {
	// Create appends an entry (no update or delete exists)
	Create(ctx context.Context, entry *LedgerEntry) error

	// FindByIDForTenant finds an entry by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)

	// FindByCounterparty lists entries for a counterparty account,
	// newest first unless the filter orders otherwise
	FindByCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// FindByDocument lists entries caused by a business document
	FindByDocument(ctx context.Context, tenantID, relatedDocumentID uuid.UUID) ([]LedgerEntry, error)

	// FindByDateRange lists entries within a date range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]LedgerEntry, error)

	// Balance folds Σcredit − Σdebit over the counterparty's entries.
	// The fold runs in the store so a balance read always sees every
	// committed entry, including ones written earlier in the same request.
	Balance(ctx context.Context, tenantID, counterpartyID uuid.UUID) (decimal.Decimal, error)

	// CountByCounterparty counts entries for a counterparty
	CountByCounterparty(ctx context.Context, tenantID, counterpartyID uuid.UUID) (int64, error)
}
