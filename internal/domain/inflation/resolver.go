package inflation

import (
	"context"
	"errors"
	"time"

	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Resolver looks up the monthly inflation rate applicable to a date.
//
// Resolution order: the exact rate for the date's (year, month); otherwise
// the latest rate recorded for an earlier month; otherwise zero. Absence of
// data is a policy, not an error: a missing rate means "assume no inflation
// effect for that gap" and is logged as a warning so report gaps stay visible.
type Resolver struct {
	rates RateRepository
	log   *zap.Logger
}

// NewResolver creates a Resolver backed by the given repository
func NewResolver(rates RateRepository, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{rates: rates, log: log}
}

// Resolve returns the monthly rate fraction applicable to the date's month
func (r *Resolver) Resolve(ctx context.Context, tenantID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	return r.resolveMonth(ctx, tenantID, date.Year(), int(date.Month()))
}

func (r *Resolver) resolveMonth(ctx context.Context, tenantID uuid.UUID, year, month int) (decimal.Decimal, error) {
	rate, err := r.rates.FindByMonth(ctx, tenantID, year, month)
	if err == nil {
		return rate.Rate, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return decimal.Zero, err
	}

	rate, err = r.rates.FindLatestOnOrBefore(ctx, tenantID, year, month)
	if err == nil {
		return rate.Rate, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return decimal.Zero, err
	}

	r.log.Warn("no inflation rate data, assuming zero",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("year", year),
		zap.Int("month", month),
	)
	return decimal.Zero, nil
}

// MonthRate is one resolved month in a series
type MonthRate struct {
	Year  int
	Month int
	Rate  decimal.Decimal
}

// MonthlySeries resolves the rate for every month between the months of
// from and to inclusive, in ascending order. Gaps are filled with the
// latest known rate, the same policy Resolve applies to a single month.
func (r *Resolver) MonthlySeries(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]MonthRate, error) {
	startIdx := monthIndex(from)
	endIdx := monthIndex(to)
	if startIdx > endIdx {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Series start must not be after its end")
	}

	resolved, err := r.monthlyRates(ctx, tenantID, startIdx, endIdx)
	if err != nil {
		return nil, err
	}

	series := make([]MonthRate, 0, endIdx-startIdx+1)
	for idx := startIdx; idx <= endIdx; idx++ {
		year, month := monthFromIndex(idx)
		series = append(series, MonthRate{Year: year, Month: month, Rate: resolved[idx]})
	}
	return series, nil
}

// monthlyRates resolves the rate for every month in [startIdx, endIdx]
// (month indexes as produced by monthIndex) with a single range query plus
// one anchor lookup, carrying the latest known rate forward across gaps.
func (r *Resolver) monthlyRates(ctx context.Context, tenantID uuid.UUID, startIdx, endIdx int) (map[int]decimal.Decimal, error) {
	startYear, startMonth := monthFromIndex(startIdx)
	endYear, endMonth := monthFromIndex(endIdx)

	rows, err := r.rates.FindRange(ctx, tenantID, startYear, startMonth, endYear, endMonth)
	if err != nil {
		return nil, err
	}
	exact := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		exact[monthIndexOf(row.Year, row.Month)] = row.Rate
	}

	current := decimal.Zero
	haveData := false
	anchor, err := r.rates.FindLatestOnOrBefore(ctx, tenantID, startYear, startMonth)
	switch {
	case err == nil:
		current = anchor.Rate
		haveData = true
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	resolved := make(map[int]decimal.Decimal, endIdx-startIdx+1)
	for idx := startIdx; idx <= endIdx; idx++ {
		if rate, ok := exact[idx]; ok {
			current = rate
			haveData = true
		} else if !haveData {
			year, month := monthFromIndex(idx)
			r.log.Warn("no inflation rate data, assuming zero",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("year", year),
				zap.Int("month", month),
			)
		}
		resolved[idx] = current
	}
	return resolved, nil
}

// monthIndex maps a date to a linear month index so month arithmetic
// does not have to deal with year boundaries
func monthIndex(t time.Time) int {
	return monthIndexOf(t.Year(), int(t.Month()))
}

func monthIndexOf(year, month int) int {
	return year*12 + month - 1
}

func monthFromIndex(idx int) (year, month int) {
	return idx / 12, idx%12 + 1
}
