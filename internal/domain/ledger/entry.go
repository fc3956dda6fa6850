package ledger

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CounterpartyKind identifies which side of the business a ledger account
// belongs to. An entry always targets a customer or a supplier, never both.
type CounterpartyKind string

const (
	CounterpartyCustomer CounterpartyKind = "CUSTOMER"
	CounterpartySupplier CounterpartyKind = "SUPPLIER"
)

// IsValid returns true if the counterparty kind is valid
func (k CounterpartyKind) IsValid() bool {
	return k == CounterpartyCustomer || k == CounterpartySupplier
}

// Direction encodes the polarity of a ledger entry. Amounts are always
// positive; the direction carries the sign.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// Opposite returns the reversing direction
func (d Direction) Opposite() Direction {
	if d == DirectionDebit {
		return DirectionCredit
	}
	return DirectionDebit
}

// LedgerEntry is an immutable debit or credit against a counterparty
// account. The balance of an account is the fold Σcredit − Σdebit over its
// entries. Reversing a business event posts a new entry with the opposite
// direction and the same amount, referencing the original document;
// entries are never updated or deleted.
//
// Sign convention: for a customer, DEBIT increases what they owe the
// business (a sale on account) and CREDIT reduces it (a collection). For a
// supplier, CREDIT increases what the business owes them (goods received)
// and DEBIT reduces it (a payment made).
type LedgerEntry struct {
	shared.BaseEntity
	TenantID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_ledger_entry_account,priority:1"`
	CounterpartyID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_ledger_entry_account,priority:2"`
	CounterpartyKind  CounterpartyKind `gorm:"type:varchar(20);not null"`
	Direction         Direction        `gorm:"type:varchar(10);not null"`
	Amount            decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // Always positive
	EntryDate         time.Time        `gorm:"type:timestamptz;not null;index"`
	RelatedDocumentID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ActorID           *uuid.UUID       `gorm:"type:uuid"`
	Description       string           `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewLedgerEntry creates an immutable ledger entry
func NewLedgerEntry(tenantID, counterpartyID uuid.UUID, kind CounterpartyKind, direction Direction, amount decimal.Decimal, relatedDocumentID uuid.UUID) (*LedgerEntry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY_KIND", "Counterparty kind must be CUSTOMER or SUPPLIER")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be DEBIT or CREDIT")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if relatedDocumentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Related document ID cannot be empty")
	}

	return &LedgerEntry{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		CounterpartyID:    counterpartyID,
		CounterpartyKind:  kind,
		Direction:         direction,
		Amount:            amount,
		EntryDate:         time.Now(),
		RelatedDocumentID: relatedDocumentID,
	}, nil
}

// WithActor records the user who posted the entry
func (e *LedgerEntry) WithActor(actorID uuid.UUID) *LedgerEntry {
	e.ActorID = &actorID
	return e
}

// WithDescription attaches a free-text note
func (e *LedgerEntry) WithDescription(description string) *LedgerEntry {
	e.Description = description
	return e
}

// WithEntryDate overrides the entry timestamp
func (e *LedgerEntry) WithEntryDate(date time.Time) *LedgerEntry {
	e.EntryDate = date
	return e
}

// SignedAmount returns the entry's contribution to the balance fold:
// positive for a credit, negative for a debit
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == DirectionCredit {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Reversal builds the sign-reversed entry cancelling this one. The reversal
// keeps the amount and document reference and flips the direction.
func (e *LedgerEntry) Reversal(description string) (*LedgerEntry, error) {
	reversal, err := NewLedgerEntry(e.TenantID, e.CounterpartyID, e.CounterpartyKind, e.Direction.Opposite(), e.Amount, e.RelatedDocumentID)
	if err != nil {
		return nil, err
	}
	reversal.Description = description
	return reversal, nil
}
