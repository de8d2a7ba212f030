package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"webnova-cotizador/db"
	"webnova-cotizador/models"
)

// ExchangeRateRepository reads and appends USD→DOP rates
type ExchangeRateRepository struct{}

// NewExchangeRateRepository creates a new ExchangeRateRepository
func NewExchangeRateRepository() *ExchangeRateRepository {
	return &ExchangeRateRepository{}
}

// Ensure ExchangeRateRepository implements ExchangeRateRepositoryInterface
var _ ExchangeRateRepositoryInterface = (*ExchangeRateRepository)(nil)

// Latest returns the most recently fetched rate or ErrNotFound
func (r *ExchangeRateRepository) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	query := `
		SELECT rate, source, fetched_at
		FROM exchange_rates
		WHERE currency_from = 'USD' AND currency_to = 'DOP'
		ORDER BY fetched_at DESC
		LIMIT 1
	`
	var rate models.ExchangeRate
	err := db.DB.QueryRowContext(ctx, query).Scan(&rate.Rate, &rate.Source, &rate.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read latest exchange rate: %w", err)
	}
	return &rate, nil
}

// Insert appends a fetched rate
func (r *ExchangeRateRepository) Insert(ctx context.Context, rate models.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (currency_from, currency_to, rate, source, fetched_at)
		VALUES ('USD', 'DOP', $1, $2, $3)
	`
	if _, err := db.DB.ExecContext(ctx, query, rate.Rate, rate.Source, rate.FetchedAt); err != nil {
		return fmt.Errorf("failed to insert exchange rate: %w", err)
	}
	return nil
}
