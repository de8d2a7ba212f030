package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"webnova-cotizador/db"
	"webnova-cotizador/models"
)

// QuotationRepository handles database operations for saved quotations
type QuotationRepository struct{}

// NewQuotationRepository creates a new QuotationRepository
func NewQuotationRepository() *QuotationRepository {
	return &QuotationRepository{}
}

// Ensure QuotationRepository implements QuotationRepositoryInterface
var _ QuotationRepositoryInterface = (*QuotationRepository)(nil)

const quotationColumns = `id, client_name, client_email, client_phone, project_type, notes,
	selected_modules, total_dop, total_usd, exchange_rate, status, created_at, updated_at`

// Insert stores record and fills its timestamps from the database
func (r *QuotationRepository) Insert(ctx context.Context, record *models.QuotationRecord) error {
	log.Printf("💾 InsertQuotation: id=%s client=%q modules=%d", record.ID, record.ClientName, len(record.SelectedModules))

	modulesJSON, err := json.Marshal(record.SelectedModules)
	if err != nil {
		return fmt.Errorf("failed to encode selected modules: %w", err)
	}

	query := `
		INSERT INTO quotations (id, client_name, client_email, client_phone, project_type, notes,
			selected_modules, total_dop, total_usd, exchange_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err = db.DB.QueryRowContext(ctx, query,
		record.ID,
		record.ClientName,
		nullString(record.ClientEmail),
		nullString(record.ClientPhone),
		record.ProjectType,
		nullString(record.Notes),
		modulesJSON,
		record.TotalLocal,
		record.TotalUSD,
		record.ExchangeRateAtSave,
		record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		log.Printf("❌ InsertQuotation: %v", err)
		return fmt.Errorf("failed to insert quotation: %w", err)
	}

	log.Printf("✅ InsertQuotation: saved id=%s", record.ID)
	return nil
}

// List returns every saved quotation, newest first
func (r *QuotationRepository) List(ctx context.Context) ([]models.QuotationRecord, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations ORDER BY created_at DESC`

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ ListQuotations: %v", err)
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer rows.Close()

	records := []models.QuotationRecord{}
	for rows.Next() {
		record, err := scanQuotation(rows)
		if err != nil {
			log.Printf("⚠️  ListQuotations: skipping unreadable row: %v", err)
			continue
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotations: %w", err)
	}

	log.Printf("✅ ListQuotations: %d records", len(records))
	return records, nil
}

// GetByID returns one quotation or ErrNotFound
func (r *QuotationRepository) GetByID(ctx context.Context, id string) (*models.QuotationRecord, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`

	record, err := scanQuotation(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Printf("❌ GetQuotation: id=%s: %v", id, err)
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return record, nil
}

// UpdateStatus sets status and touches updated_at
func (r *QuotationRepository) UpdateStatus(ctx context.Context, id string, status string) (*models.QuotationRecord, error) {
	log.Printf("📝 UpdateQuotationStatus: id=%s status=%s", id, status)

	query := `
		UPDATE quotations SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + quotationColumns

	record, err := scanQuotation(db.DB.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Printf("❌ UpdateQuotationStatus: id=%s: %v", id, err)
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}
	return record, nil
}

// Delete permanently removes a quotation
func (r *QuotationRepository) Delete(ctx context.Context, id string) error {
	log.Printf("🗑️  DeleteQuotation: id=%s", id)

	res, err := db.DB.ExecContext(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		log.Printf("❌ DeleteQuotation: id=%s: %v", id, err)
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuotation(row rowScanner) (*models.QuotationRecord, error) {
	var record models.QuotationRecord
	var email, phone, notes, status sql.NullString
	var modulesJSON []byte

	err := row.Scan(
		&record.ID,
		&record.ClientName,
		&email,
		&phone,
		&record.ProjectType,
		&notes,
		&modulesJSON,
		&record.TotalLocal,
		&record.TotalUSD,
		&record.ExchangeRateAtSave,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ClientEmail = email.String
	record.ClientPhone = phone.String
	record.Notes = notes.String
	record.Status = models.NormalizeStatus(status.String)

	record.SelectedModules = []models.Module{}
	if len(modulesJSON) > 0 {
		if err := json.Unmarshal(modulesJSON, &record.SelectedModules); err != nil {
			return nil, fmt.Errorf("failed to decode selected modules of %s: %w", record.ID, err)
		}
	}
	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
