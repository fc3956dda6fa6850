package report

import (
	"context"
	"sort"
	"time"

	"github.com/nursery-erp/backend/internal/application/costing"
	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/nursery-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// indexBaseline is the value every index series is rebased to at its
// first in-range point
var indexBaseline = decimal.NewFromInt(100)

// CostMatcher resolves the cost of goods sold for a sale line
type CostMatcher interface {
	MatchCostForSale(ctx context.Context, tenantID uuid.UUID, req costing.CostMatchRequest) (*costing.CostMatchResponse, error)
}

// ReportService assembles reports from ledger, costing and rate data. It
// is read-only: reports are computed on demand from current data and no
// report run ever writes. Missing rate data degrades to flat trend points
// instead of failing the report.
type ReportService struct {
	sales       SalesReader
	expenses    ExpenseReader
	costMatcher CostMatcher
	resolver    *inflation.Resolver
	converter   *inflation.Converter
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	sales SalesReader,
	expenses ExpenseReader,
	costMatcher CostMatcher,
	resolver *inflation.Resolver,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		sales:       sales,
		expenses:    expenses,
		costMatcher: costMatcher,
		resolver:    resolver,
		converter:   inflation.NewConverter(resolver),
		logger:      logger,
	}
}

// ProfitAndLoss computes revenue, cost of goods sold, expenses and profit
// for a period, each as a nominal amount and its restatement to the target
// date's price level
func (s *ReportService) ProfitAndLoss(ctx context.Context, tenantID uuid.UUID, req ProfitAndLossRequest) (*ProfitAndLossResponse, error) {
	if req.End.Before(req.Start) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must not be before its start")
	}
	target := req.TargetDate
	if target.IsZero() {
		target = req.End
	}

	saleLines, err := s.sales.SaleLines(ctx, tenantID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	revenue := AmountPair{Nominal: decimal.Zero, Real: decimal.Zero}
	cogs := AmountPair{Nominal: decimal.Zero, Real: decimal.Zero}
	for _, line := range saleLines {
		revenue.Nominal = revenue.Nominal.Add(line.Revenue)
		realRevenue, err := s.converter.RealValue(ctx, tenantID, line.Revenue, line.SaleDate, target)
		if err != nil {
			return nil, err
		}
		revenue.Real = revenue.Real.Add(realRevenue)

		match, err := s.costMatcher.MatchCostForSale(ctx, tenantID, costing.CostMatchRequest{
			PlantID:    line.PlantID,
			Quantity:   line.Quantity,
			SaleDate:   line.SaleDate,
			TargetDate: target,
		})
		if err != nil {
			return nil, err
		}
		cogs.Nominal = cogs.Nominal.Add(match.NominalCost)
		cogs.Real = cogs.Real.Add(match.RealCost)
	}

	expenseLines, err := s.expenses.ExpenseLines(ctx, tenantID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	expenses := AmountPair{Nominal: decimal.Zero, Real: decimal.Zero}
	for _, line := range expenseLines {
		expenses.Nominal = expenses.Nominal.Add(line.Amount)
		realExpense, err := s.converter.RealValue(ctx, tenantID, line.Amount, line.ExpenseDate, target)
		if err != nil {
			return nil, err
		}
		expenses.Real = expenses.Real.Add(realExpense)
	}

	gross := AmountPair{
		Nominal: revenue.Nominal.Sub(cogs.Nominal),
		Real:    revenue.Real.Sub(cogs.Real),
	}
	net := AmountPair{
		Nominal: gross.Nominal.Sub(expenses.Nominal),
		Real:    gross.Real.Sub(expenses.Real),
	}

	return &ProfitAndLossResponse{
		Start:       req.Start,
		End:         req.End,
		TargetDate:  target,
		Revenue:     roundPair(revenue),
		COGS:        roundPair(cogs),
		GrossProfit: roundPair(gross),
		Expenses:    roundPair(expenses),
		NetProfit:   roundPair(net),
	}, nil
}

// InflationIndexTrend returns the monthly inflation index over a period,
// rebased to 100 at the first month. Each following month compounds the
// preceding month's resolved rate, so months without data extend the
// index flat.
func (s *ReportService) InflationIndexTrend(ctx context.Context, tenantID uuid.UUID, req TrendRequest) ([]IndexPoint, error) {
	series, err := s.resolver.MonthlySeries(ctx, tenantID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	points := make([]IndexPoint, 0, len(series))
	index := indexBaseline
	for i, month := range series {
		if i > 0 {
			index = index.Mul(decimal.NewFromInt(1).Add(series[i-1].Rate))
		}
		points = append(points, IndexPoint{
			Year:  month.Year,
			Month: month.Month,
			Index: index.Round(2),
		})
	}
	return points, nil
}

// CostTrend returns the monthly unit cost of goods sold for a plant as an
// index rebased to 100 at the first month with sales, paired with the
// inflation index rebased at the same month. Months without sales are
// omitted, not interpolated.
func (s *ReportService) CostTrend(ctx context.Context, tenantID uuid.UUID, req PlantTrendRequest) ([]CostTrendPoint, error) {
	buckets, err := s.monthlySaleBuckets(ctx, tenantID, req.PlantID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	type monthCost struct {
		year, month int
		unitCost    decimal.Decimal
	}
	costs := make([]monthCost, 0, len(buckets))
	for _, bucket := range buckets {
		nominal := decimal.Zero
		var units int64
		for _, line := range bucket.lines {
			match, err := s.costMatcher.MatchCostForSale(ctx, tenantID, costing.CostMatchRequest{
				PlantID:  line.PlantID,
				Quantity: line.Quantity,
				SaleDate: line.SaleDate,
			})
			if err != nil {
				return nil, err
			}
			nominal = nominal.Add(match.NominalCost)
			units += line.Quantity
		}
		if units == 0 {
			continue
		}
		costs = append(costs, monthCost{
			year:     bucket.year,
			month:    bucket.month,
			unitCost: nominal.DivRound(decimal.NewFromInt(units), 2),
		})
	}
	if len(costs) == 0 {
		return []CostTrendPoint{}, nil
	}

	baseDate := monthDate(costs[0].year, costs[0].month)
	baseCost := costs[0].unitCost
	points := make([]CostTrendPoint, 0, len(costs))
	for _, cost := range costs {
		costIndex := indexBaseline
		if !baseCost.IsZero() {
			costIndex = cost.unitCost.DivRound(baseCost, 8).Mul(indexBaseline)
		}
		factor, err := s.converter.CumulativeFactor(ctx, tenantID, baseDate, monthDate(cost.year, cost.month))
		if err != nil {
			return nil, err
		}
		points = append(points, CostTrendPoint{
			Year:           cost.year,
			Month:          cost.month,
			UnitCost:       cost.unitCost,
			CostIndex:      costIndex.Round(2),
			InflationIndex: indexBaseline.Mul(factor).Round(2),
		})
	}
	return points, nil
}

// PricePerformanceTrend returns the monthly average nominal sale price of
// a plant against the price expected from inflation alone: the first
// month's average price carried forward by the cumulative factor. Months
// without sales are omitted.
func (s *ReportService) PricePerformanceTrend(ctx context.Context, tenantID uuid.UUID, req PlantTrendRequest) ([]PricePoint, error) {
	buckets, err := s.monthlySaleBuckets(ctx, tenantID, req.PlantID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	type monthPrice struct {
		year, month int
		price       decimal.Decimal
	}
	prices := make([]monthPrice, 0, len(buckets))
	for _, bucket := range buckets {
		revenue := decimal.Zero
		var units int64
		for _, line := range bucket.lines {
			revenue = revenue.Add(line.Revenue)
			units += line.Quantity
		}
		if units == 0 {
			continue
		}
		prices = append(prices, monthPrice{
			year:  bucket.year,
			month: bucket.month,
			price: revenue.DivRound(decimal.NewFromInt(units), 2),
		})
	}
	if len(prices) == 0 {
		return []PricePoint{}, nil
	}

	baseDate := monthDate(prices[0].year, prices[0].month)
	basePrice := prices[0].price
	points := make([]PricePoint, 0, len(prices))
	for _, price := range prices {
		factor, err := s.converter.CumulativeFactor(ctx, tenantID, baseDate, monthDate(price.year, price.month))
		if err != nil {
			return nil, err
		}
		points = append(points, PricePoint{
			Year:          price.year,
			Month:         price.month,
			NominalPrice:  price.price,
			ExpectedPrice: basePrice.Mul(factor).Round(2),
		})
	}
	return points, nil
}

type saleBucket struct {
	year, month int
	lines       []SaleLine
}

// monthlySaleBuckets groups a plant's sale lines by calendar month,
// ascending, skipping months without sales
func (s *ReportService) monthlySaleBuckets(ctx context.Context, tenantID, plantID uuid.UUID, start, end time.Time) ([]saleBucket, error) {
	lines, err := s.sales.SaleLines(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]*saleBucket)
	for _, line := range lines {
		if line.PlantID != plantID {
			continue
		}
		key := line.SaleDate.Year()*12 + int(line.SaleDate.Month()) - 1
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &saleBucket{year: line.SaleDate.Year(), month: int(line.SaleDate.Month())}
			byMonth[key] = bucket
		}
		bucket.lines = append(bucket.lines, line)
	}

	keys := make([]int, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	buckets := make([]saleBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, *byMonth[key])
	}
	return buckets, nil
}

func monthDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

func roundPair(pair AmountPair) AmountPair {
	return AmountPair{Nominal: pair.Nominal.Round(2), Real: pair.Real.Round(2)}
}
