package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// ListRatesParams defines the query parameters for listing cached rates.
type ListRatesParams struct {
	Currency string `form:"currency"`
	Base     string `form:"base"`
	Top      int    `form:"top" binding:"omitempty,min=1"`
}

// RateResponse defines the structure for API responses containing one
// directional exchange rate.
type RateResponse struct {
	FromCode  string          `json:"fromCode"`
	ToCode    string          `json:"toCode"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Source    string          `json:"source"`
}

// RateListResponse is a snapshot of the rate cache.
type RateListResponse struct {
	Pairs       []RateResponse `json:"pairs"`
	LastRefresh *time.Time     `json:"lastRefresh,omitempty"`
}

// ToRateResponse converts a domain.RatePair to RateResponse DTO.
func ToRateResponse(pair *domain.RatePair) RateResponse {
	return RateResponse{
		FromCode:  pair.FromCode,
		ToCode:    pair.ToCode,
		Rate:      pair.Rate,
		UpdatedAt: pair.UpdatedAt,
		Source:    pair.Source,
	}
}

// ToRateListResponse converts cached pairs plus the cache's last refresh
// instant to the list DTO.
func ToRateListResponse(pairs []domain.RatePair, lastRefresh time.Time) RateListResponse {
	resp := RateListResponse{Pairs: make([]RateResponse, len(pairs))}
	for i := range pairs {
		resp.Pairs[i] = ToRateResponse(&pairs[i])
	}
	if !lastRefresh.IsZero() {
		t := lastRefresh
		resp.LastRefresh = &t
	}
	return resp
}
