package service

import (
	"context"

	"webnova-cotizador/advisory"
	"webnova-cotizador/models"
)

// CompletionClientInterface defines the contract for the chat completion backend
type CompletionClientInterface interface {
	Complete(ctx context.Context, messages []advisory.Message) (*CompletionResult, error)
}

// RateFetcherInterface defines the contract for a live exchange rate source
type RateFetcherInterface interface {
	Fetch(ctx context.Context) (models.ExchangeRate, error)
}

// RateSource is anything that can give the USD→DOP rate currently in use
type RateSource interface {
	Rate() float64
}
