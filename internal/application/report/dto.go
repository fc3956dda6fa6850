package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/google/uuid"
)

// ProfitAndLossRequest represents a request for a period profit and loss
// statement. TargetDate is the price level the real columns are restated
// to; when zero it defaults to the period end.
type ProfitAndLossRequest struct {
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	TargetDate time.Time `json:"target_date"`
}

// AmountPair carries a nominal amount and its inflation-restated value
type AmountPair struct {
	Nominal decimal.Decimal `json:"nominal"`
	Real    decimal.Decimal `json:"real"`
}

// ProfitAndLossResponse is the nominal-vs-real statement for a period
type ProfitAndLossResponse struct {
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	TargetDate  time.Time  `json:"target_date"`
	Revenue     AmountPair `json:"revenue"`
	COGS        AmountPair `json:"cogs"`
	GrossProfit AmountPair `json:"gross_profit"`
	Expenses    AmountPair `json:"expenses"`
	NetProfit   AmountPair `json:"net_profit"`
}

// TrendRequest represents a request for a monthly trend
type TrendRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// PlantTrendRequest represents a request for a monthly trend of one plant
type PlantTrendRequest struct {
	PlantID uuid.UUID `json:"plant_id" binding:"required"`
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
}

// IndexPoint is one month of an index series rebased to 100 at the first
// in-range point
type IndexPoint struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Index decimal.Decimal `json:"index"`
}

// CostTrendPoint pairs the unit cost index of a plant with the inflation
// index for the same month
type CostTrendPoint struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	CostIndex      decimal.Decimal `json:"cost_index"`
	InflationIndex decimal.Decimal `json:"inflation_index"`
}

// PricePoint pairs the average nominal sale price of a plant with the
// price expected from inflation alone
type PricePoint struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	NominalPrice  decimal.Decimal `json:"nominal_price"`
	ExpectedPrice decimal.Decimal `json:"expected_price"`
}
