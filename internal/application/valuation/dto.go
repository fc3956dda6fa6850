package valuation

import (
	"time"

	"github.com/nursery-erp/backend/internal/domain/inflation"
	"github.com/shopspring/decimal"
	"github.com/google/uuid"
)

// RateResponse represents a stored monthly inflation rate in API responses
type RateResponse struct {
	ID        uuid.UUID       `json:"id"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Rate      decimal.Decimal `json:"rate"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpsertRateRequest represents a request to record or correct a monthly rate
type UpsertRateRequest struct {
	Year  int             `json:"year" binding:"required,min=1900,max=2200"`
	Month int             `json:"month" binding:"required,min=1,max=12"`
	Rate  decimal.Decimal `json:"rate" binding:"required"`
}

// ResolvedRateResponse represents the rate applicable to a month after
// the fallback policy has been applied
type ResolvedRateResponse struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Rate  decimal.Decimal `json:"rate"`
}

// RealValueRequest represents a request to restate a nominal amount
type RealValueRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	ValueDate  time.Time       `json:"value_date" binding:"required"`
	TargetDate time.Time       `json:"target_date" binding:"required"`
}

// RealValueResponse carries a nominal amount and its restated counterpart
type RealValueResponse struct {
	NominalAmount decimal.Decimal `json:"nominal_amount"`
	RealAmount    decimal.Decimal `json:"real_amount"`
	Factor        decimal.Decimal `json:"factor"`
	ValueDate     time.Time       `json:"value_date"`
	TargetDate    time.Time       `json:"target_date"`
}

func toRateResponse(rate *inflation.InflationRate) *RateResponse {
	return &RateResponse{
		ID:        rate.ID,
		Year:      rate.Year,
		Month:     rate.Month,
		Rate:      rate.Rate,
		CreatedAt: rate.CreatedAt,
		UpdatedAt: rate.UpdatedAt,
	}
}
