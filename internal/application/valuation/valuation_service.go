package valuation

import (
	"context"
	"errors"
	"time"

	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ValuationService exposes inflation rate management and value restatement
type ValuationService struct {
	rateRepo  inflation.RateRepository
	resolver  *inflation.Resolver
	converter *inflation.Converter
	logger    *zap.Logger
}

// NewValuationService creates a new ValuationService
func NewValuationService(rateRepo inflation.RateRepository, logger *zap.Logger) *ValuationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := inflation.NewResolver(rateRepo, logger)
	return &ValuationService{
		rateRepo:  rateRepo,
		resolver:  resolver,
		converter: inflation.NewConverter(resolver),
		logger:    logger,
	}
}

// Converter returns the converter backed by this service's rate data.
// Other services reuse it so every restatement applies the same policy.
func (s *ValuationService) Converter() *inflation.Converter {
	return s.converter
}

// Resolver returns the rate resolver backed by this service's rate data
func (s *ValuationService) Resolver() *inflation.Resolver {
	return s.resolver
}

// UpsertRate records the inflation rate for a month, replacing any rate
// already stored for it. Corrections overwrite; rates have no history.
func (s *ValuationService) UpsertRate(ctx context.Context, tenantID uuid.UUID, req UpsertRateRequest) (*RateResponse, error) {
	// Validation lives in the aggregate constructor
	candidate, err := inflation.NewInflationRate(tenantID, req.Year, req.Month, req.Rate)
	if err != nil {
		return nil, err
	}

	existing, err := s.rateRepo.FindByMonth(ctx, tenantID, req.Year, req.Month)
	switch {
	case err == nil:
		existing.Rate = req.Rate
		existing.IncrementVersion()
		if err := s.rateRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		s.logger.Info("inflation rate corrected",
			zap.String("tenant_id", tenantID.String()),
			zap.Int("year", req.Year),
			zap.Int("month", req.Month),
			zap.String("rate", req.Rate.String()),
		)
		return toRateResponse(existing), nil
	case errors.Is(err, shared.ErrNotFound):
		if err := s.rateRepo.Save(ctx, candidate); err != nil {
			return nil, err
		}
		return toRateResponse(candidate), nil
	default:
		return nil, err
	}
}

// ListRates lists the stored rates for a tenant
func (s *ValuationService) ListRates(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RateResponse, error) {
	rates, err := s.rateRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = *toRateResponse(&rates[i])
	}
	return responses, nil
}

// ResolveMonthlyRate returns the rate applicable to a month after fallback:
// the exact rate if stored, otherwise the latest earlier rate, otherwise zero
func (s *ValuationService) ResolveMonthlyRate(ctx context.Context, tenantID uuid.UUID, year, month int) (*ResolvedRateResponse, error) {
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	date := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	rate, err := s.resolver.Resolve(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	return &ResolvedRateResponse{Year: year, Month: month, Rate: rate}, nil
}

// RealValue restates a nominal amount from its value date into the price
// level of the target date by compounding monthly rates. A zero amount or a
// zero date is a no-op, matching Converter.RealValue.
func (s *ValuationService) RealValue(ctx context.Context, tenantID uuid.UUID, req RealValueRequest) (*RealValueResponse, error) {
	if req.Amount.IsZero() || req.ValueDate.IsZero() || req.TargetDate.IsZero() {
		return &RealValueResponse{
			NominalAmount: req.Amount,
			RealAmount:    req.Amount,
			Factor:        decimal.NewFromInt(1),
			ValueDate:     req.ValueDate,
			TargetDate:    req.TargetDate,
		}, nil
	}

	factor, err := s.converter.CumulativeFactor(ctx, tenantID, req.ValueDate, req.TargetDate)
	if err != nil {
		return nil, err
	}
	real := req.Amount.Mul(factor).Round(2)
	return &RealValueResponse{
		NominalAmount: req.Amount,
		RealAmount:    real,
		Factor:        factor,
		ValueDate:     req.ValueDate,
		TargetDate:    req.TargetDate,
	}, nil
}
