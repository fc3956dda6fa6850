package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/google/uuid"
)

// SaleLine is one sold line as reports consume it. Revenue is the nominal
// line total at sale time.
type SaleLine struct {
	PlantID  uuid.UUID
	Quantity int64
	Revenue  decimal.Decimal
	SaleDate time.Time
}

// ExpenseLine is one recorded expense as reports consume it
type ExpenseLine struct {
	Amount      decimal.Decimal
	Category    string
	ExpenseDate time.Time
}

// SalesReader supplies sale lines for a period. Orders and invoices are
// owned by the surrounding application; reports only read them.
type SalesReader interface {
	SaleLines(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]SaleLine, error)
}

// ExpenseReader supplies expense lines for a period
type ExpenseReader interface {
	ExpenseLines(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]ExpenseLine, error)
}
