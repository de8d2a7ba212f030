package repository

import (
	"context"
	"database/sql"
	"fmt"

	"webnova-cotizador/db"
	"webnova-cotizador/models"
)

// InferenceLogRepository records advisory queries
type InferenceLogRepository struct{}

// NewInferenceLogRepository creates a new InferenceLogRepository
func NewInferenceLogRepository() *InferenceLogRepository {
	return &InferenceLogRepository{}
}

// Ensure InferenceLogRepository implements InferenceLogRepositoryInterface
var _ InferenceLogRepositoryInterface = (*InferenceLogRepository)(nil)

// Insert appends one log entry
func (r *InferenceLogRepository) Insert(ctx context.Context, entry models.InferenceLog) error {
	query := `
		INSERT INTO ai_inference_logs (query_type, prompt, response, model, processing_time_ms, exchange_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.DB.ExecContext(ctx, query,
		entry.Kind,
		entry.Prompt,
		entry.Response,
		sql.NullString{String: entry.Model, Valid: entry.Model != ""},
		entry.ProcessingTimeMs,
		entry.ExchangeRate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inference log: %w", err)
	}
	return nil
}
