package controller

import (
	"net/http"

	"webnova-cotizador/service"
)

// ExchangeRateController exposes the USD→DOP rate in use
type ExchangeRateController struct {
	rates *service.ExchangeRateService
}

// NewExchangeRateController creates a new ExchangeRateController
func NewExchangeRateController(rates *service.ExchangeRateService) *ExchangeRateController {
	return &ExchangeRateController{rates: rates}
}

// GetRate handles GET /exchange-rate
func (c *ExchangeRateController) GetRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.rates.Snapshot())
}

// Refresh handles POST /exchange-rate/refresh
// Failures are not errors: the previous rate is kept and reported
func (c *ExchangeRateController) Refresh(w http.ResponseWriter, r *http.Request) {
	c.rates.Refresh(r.Context())
	writeJSON(w, http.StatusOK, c.rates.Snapshot())
}
