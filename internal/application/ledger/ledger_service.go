package ledger

import (
	"context"
	"time"

	"github.com/nursery-erp/backend/internal/domain/ledger"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService appends entries to counterparty accounts and reads their
// balances. Entries are never edited: a mistake is cancelled by posting
// its reversal.
type LedgerService struct {
	entryRepo ledger.EntryRepository
	logger    *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(entryRepo ledger.EntryRepository, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{entryRepo: entryRepo, logger: logger}
}

// PostEntry appends a debit or credit to a counterparty account
func (s *LedgerService) PostEntry(ctx context.Context, tenantID uuid.UUID, req PostEntryRequest) (*EntryResponse, error) {
	entry, err := ledger.NewLedgerEntry(tenantID, req.CounterpartyID, req.CounterpartyKind, req.Direction, req.Amount, req.RelatedDocumentID)
	if err != nil {
		return nil, err
	}
	if req.ActorID != nil {
		entry.WithActor(*req.ActorID)
	}
	if req.Description != "" {
		entry.WithDescription(req.Description)
	}
	if !req.EntryDate.IsZero() {
		entry.WithEntryDate(req.EntryDate)
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry posted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("counterparty_id", req.CounterpartyID.String()),
		zap.String("direction", string(req.Direction)),
		zap.String("amount", req.Amount.String()),
	)
	return toEntryResponse(entry), nil
}

// ReverseEntry cancels an entry's effect by appending a new entry with the
// opposite direction and the same amount and document reference. The
// original entry stays untouched.
func (s *LedgerService) ReverseEntry(ctx context.Context, tenantID, entryID uuid.UUID, req ReverseEntryRequest) (*EntryResponse, error) {
	original, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	reversal, err := original.Reversal(req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.Create(ctx, reversal); err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry reversed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("original_entry_id", entryID.String()),
		zap.String("reversal_entry_id", reversal.ID.String()),
	)
	return toEntryResponse(reversal), nil
}

// Balance returns a counterparty's account balance, the fold of signed
// amounts over every entry posted so far
func (s *LedgerService) Balance(ctx context.Context, tenantID, counterpartyID uuid.UUID) (*BalanceResponse, error) {
	balance, err := s.entryRepo.Balance(ctx, tenantID, counterpartyID)
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{CounterpartyID: counterpartyID, Balance: balance}, nil
}

// Statement returns a page of a counterparty's entries together with the
// account balance over all entries
func (s *LedgerService) Statement(ctx context.Context, tenantID, counterpartyID uuid.UUID, filter shared.Filter) (*StatementResponse, error) {
	entries, err := s.entryRepo.FindByCounterparty(ctx, tenantID, counterpartyID, filter)
	if err != nil {
		return nil, err
	}
	balance, err := s.entryRepo.Balance(ctx, tenantID, counterpartyID)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{
		CounterpartyID: counterpartyID,
		Balance:        balance,
		Entries:        toEntryResponses(entries),
	}, nil
}

// EntriesForDocument lists the entries a business document caused
func (s *LedgerService) EntriesForDocument(ctx context.Context, tenantID, relatedDocumentID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.entryRepo.FindByDocument(ctx, tenantID, relatedDocumentID)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// EntriesInRange lists entries within a date range
func (s *LedgerService) EntriesInRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]EntryResponse, error) {
	entries, err := s.entryRepo.FindByDateRange(ctx, tenantID, start, end, filter)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}
