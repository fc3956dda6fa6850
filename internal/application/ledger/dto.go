package ledger

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/google/uuid"
)

// PostEntryRequest represents a request to append a ledger entry
type PostEntryRequest struct {
	CounterpartyID    uuid.UUID               `json:"counterparty_id" binding:"required"`
	CounterpartyKind  ledger.CounterpartyKind `json:"counterparty_kind" binding:"required"`
	Direction         ledger.Direction        `json:"direction" binding:"required"`
	Amount            decimal.Decimal         `json:"amount" binding:"required"`
	RelatedDocumentID uuid.UUID               `json:"related_document_id" binding:"required"`
	ActorID           *uuid.UUID              `json:"actor_id,omitempty"`
	Description       string                  `json:"description"`
	EntryDate         time.Time               `json:"entry_date"`
}

// ReverseEntryRequest represents a request to cancel an entry's effect
type ReverseEntryRequest struct {
	Description string `json:"description"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID                uuid.UUID               `json:"id"`
	CounterpartyID    uuid.UUID               `json:"counterparty_id"`
	CounterpartyKind  ledger.CounterpartyKind `json:"counterparty_kind"`
	Direction         ledger.Direction        `json:"direction"`
	Amount            decimal.Decimal         `json:"amount"`
	SignedAmount      decimal.Decimal         `json:"signed_amount"`
	EntryDate         time.Time               `json:"entry_date"`
	RelatedDocumentID uuid.UUID               `json:"related_document_id"`
	ActorID           *uuid.UUID              `json:"actor_id,omitempty"`
	Description       string                  `json:"description,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
}

// BalanceResponse represents a counterparty account balance
type BalanceResponse struct {
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Balance        decimal.Decimal `json:"balance"`
}

// StatementResponse carries an account's entries together with its balance
type StatementResponse struct {
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Balance        decimal.Decimal `json:"balance"`
	Entries        []EntryResponse `json:"entries"`
}

func toEntryResponse(entry *ledger.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:                entry.ID,
		CounterpartyID:    entry.CounterpartyID,
		CounterpartyKind:  entry.CounterpartyKind,
		Direction:         entry.Direction,
		Amount:            entry.Amount,
		SignedAmount:      entry.SignedAmount(),
		EntryDate:         entry.EntryDate,
		RelatedDocumentID: entry.RelatedDocumentID,
		ActorID:           entry.ActorID,
		Description:       entry.Description,
		CreatedAt:         entry.CreatedAt,
	}
}

func toEntryResponses(entries []ledger.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toEntryResponse(&entries[i])
	}
	return responses
}
