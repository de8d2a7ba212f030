package repository

import (
	"context"
	"errors"

	"webnova-cotizador/models"
)

// ErrNotFound is returned when a row addressed by id does not exist
var ErrNotFound = errors.New("not found")

// QuotationRepositoryInterface defines the contract for saved quotation operations
type QuotationRepositoryInterface interface {
	Insert(ctx context.Context, record *models.QuotationRecord) error
	List(ctx context.Context) ([]models.QuotationRecord, error)
	GetByID(ctx context.Context, id string) (*models.QuotationRecord, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.QuotationRecord, error)
	Delete(ctx context.Context, id string) error
}

// ExchangeRateRepositoryInterface defines the contract for the USD→DOP rate history
type ExchangeRateRepositoryInterface interface {
	Latest(ctx context.Context) (*models.ExchangeRate, error)
	Insert(ctx context.Context, rate models.ExchangeRate) error
}

// InferenceLogRepositoryInterface defines the contract for advisory query logging
type InferenceLogRepositoryInterface interface {
	Insert(ctx context.Context, entry models.InferenceLog) error
}
