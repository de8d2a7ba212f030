package models

import "time"

// RateState is the lifecycle state of the exchange rate provider
type RateState string

const (
	RateUninitialized RateState = "UNINITIALIZED"
	RateFetching      RateState = "FETCHING"
	RateReady         RateState = "READY"
	RateStale         RateState = "STALE"
)

// ExchangeRate represents a USD to local currency conversion factor
type ExchangeRate struct {
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetchedAt"`
	Source    string    `json:"source"`
}

// ExchangeRateResponse represents the response for GET /exchange-rate
// Example response:
// {
//   "rate": 60.5,
//   "fetchedAt": "2026-01-04T10:30:00Z",
//   "source": "exchangerate-api.com",
//   "state": "READY"
// }
type ExchangeRateResponse struct {
	ExchangeRate
	State RateState `json:"state"`
}
