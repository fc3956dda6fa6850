package inflation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// factorDivisionPrecision is the number of decimal digits kept when dividing
// by (1 + rate) while walking backwards. Compounding over long spans amplifies
// rounding error, so intermediate precision stays well above the final
// 2-decimal rounding of monetary amounts.
const factorDivisionPrecision = 12

// Converter translates nominal amounts recorded at one date into their
// purchasing-power equivalent at another date by compounding monthly
// inflation rates. Adjustment granularity is monthly: dates in the same
// month convert with factor 1.
type Converter struct {
	resolver *Resolver
}

// NewConverter creates a Converter using the given rate resolver
func NewConverter(resolver *Resolver) *Converter {
	return &Converter{resolver: resolver}
}

// CumulativeFactor computes the compounding factor between two dates.
//
// Moving forward the factor is the product of (1 + rate) over every month
// from from's month inclusive up to, excluding, to's month: the rate of a
// month captures the price change during that month, so converting Jan to
// Mar compounds January's and February's rates. Moving backward mirrors
// this with division, which makes the conversion a round trip.
func (c *Converter) CumulativeFactor(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)

	fromIdx := monthIndex(from)
	toIdx := monthIndex(to)
	if fromIdx == toIdx {
		return one, nil
	}

	factor := one
	if toIdx > fromIdx {
		rates, err := c.resolver.monthlyRates(ctx, tenantID, fromIdx, toIdx-1)
		if err != nil {
			return decimal.Zero, err
		}
		for idx := fromIdx; idx < toIdx; idx++ {
			factor = factor.Mul(one.Add(rates[idx]))
		}
		return factor, nil
	}

	rates, err := c.resolver.monthlyRates(ctx, tenantID, toIdx, fromIdx-1)
	if err != nil {
		return decimal.Zero, err
	}
	for idx := toIdx; idx < fromIdx; idx++ {
		factor = factor.DivRound(one.Add(rates[idx]), factorDivisionPrecision)
	}
	return factor, nil
}

// RealValue converts a nominal amount recorded at from into its real
// equivalent at to, rounded to 2 decimals half up. A zero amount or a zero
// date is a no-op: the amount is returned unchanged.
func (c *Converter) RealValue(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal, from, to time.Time) (decimal.Decimal, error) {
	if amount.IsZero() || from.IsZero() || to.IsZero() {
		return amount, nil
	}

	factor, err := c.CumulativeFactor(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(factor).Round(2), nil
}
