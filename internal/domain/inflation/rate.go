package inflation

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InflationRate is the monthly inflation rate recorded for a tenant.
// The rate is a decimal fraction (0.02 means 2% for that month) and is unique
// per (tenant, year, month). Rates are entered by accountants before any
// conversion touches their month; the engine treats them as read-only input.
type InflationRate struct {
	shared.TenantAggregateRoot
	Year  int             `gorm:"not null;uniqueIndex:idx_inflation_rate_tenant_month,priority:2"`
	Month int             `gorm:"not null;uniqueIndex:idx_inflation_rate_tenant_month,priority:3"`
	Rate  decimal.Decimal `gorm:"type:decimal(12,8);not null"`
}

// TableName returns the table name for GORM
func (InflationRate) TableName() string {
	return "inflation_rates"
}

// NewInflationRate creates a monthly rate entry for a tenant
func NewInflationRate(tenantID uuid.UUID, year, month int, rate decimal.Decimal) (*InflationRate, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if year < 1900 || year > 3000 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year is out of range")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	// A rate of -1 (or lower) would make the compounding factor zero or negative.
	if rate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate must be greater than -1")
	}

	return &InflationRate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Year:                year,
		Month:               month,
		Rate:                rate,
	}, nil
}

// Period returns the first day of the rate's month in UTC
func (r *InflationRate) Period() time.Time {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Covers reports whether the rate applies to the given date's month
func (r *InflationRate) Covers(date time.Time) bool {
	return r.Year == date.Year() && time.Month(r.Month) == date.Month()
}
