package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/repository"
	"webnova-cotizador/utils"
)

// Status filter values accepted by List
const (
	FilterAll       = "all"
	FilterDraft     = models.StatusDraft
	FilterFinalized = models.StatusFinalized
)

// ListFilter narrows the saved quotation list
type ListFilter struct {
	Status string // draft, finalized or all (default)
	Query  string // case-insensitive substring over client, project type and status
}

// SaveExtras are the optional client details not held by the working quotation
type SaveExtras struct {
	ClientEmail string `json:"clientEmail,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// QuotationService is the gateway to the saved quotation vault
type QuotationService struct {
	repo  repository.QuotationRepositoryInterface
	rates RateSource
	newID func() string
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(repo repository.QuotationRepositoryInterface, rates RateSource) *QuotationService {
	return &QuotationService{
		repo:  repo,
		rates: rates,
		newID: uuid.NewString,
	}
}

// ValidateSaveRequest checks what a quotation needs before it can be stored
func ValidateSaveRequest(req models.SaveQuotationRequest) error {
	v := utils.Violations{}
	utils.Required("clientName", req.ClientName, v)
	utils.Required("projectType", req.ProjectType, v)
	utils.NotEmpty("selectedModules", len(req.SelectedModules), v)
	return v.Err()
}

// Save stores a snapshot of the given modules as a new draft.
// Totals left at zero are computed; the current exchange rate is frozen in.
func (s *QuotationService) Save(ctx context.Context, req models.SaveQuotationRequest) (*models.QuotationRecord, error) {
	if err := ValidateSaveRequest(req); err != nil {
		log.Printf("❌ SaveQuotation: %v", err)
		return nil, err
	}

	rate := s.rates.Rate()
	record := &models.QuotationRecord{
		ID:                 s.newID(),
		ClientName:         strings.TrimSpace(req.ClientName),
		ClientEmail:        strings.TrimSpace(req.ClientEmail),
		ClientPhone:        strings.TrimSpace(req.ClientPhone),
		ProjectType:        strings.TrimSpace(req.ProjectType),
		Notes:              req.Notes,
		SelectedModules:    append([]models.Module(nil), req.SelectedModules...),
		TotalLocal:         req.TotalLocal,
		TotalUSD:           req.TotalUSD,
		ExchangeRateAtSave: rate,
		Status:             models.StatusDraft,
	}
	if record.TotalLocal == 0 {
		for _, m := range record.SelectedModules {
			record.TotalLocal += m.Price
		}
	}
	if record.TotalUSD == 0 {
		record.TotalUSD = utils.ToUSD(record.TotalLocal, rate)
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}
	log.Printf("✅ SaveQuotation: id=%s client=%q total=%s", record.ID, record.ClientName, utils.FormatDOP(record.TotalLocal))
	return record, nil
}

// SaveCurrent saves the working quotation: its client, project type and selected modules
func (s *QuotationService) SaveCurrent(ctx context.Context, state *quotation.State, extras SaveExtras) (*models.QuotationRecord, error) {
	view := state.View()
	return s.Save(ctx, models.SaveQuotationRequest{
		ClientName:      view.ClientName,
		ClientEmail:     extras.ClientEmail,
		ClientPhone:     extras.ClientPhone,
		ProjectType:     view.ProjectType,
		Notes:           extras.Notes,
		SelectedModules: view.SelectedModules,
		TotalLocal:      view.Total,
	})
}

// List returns saved quotations newest first, narrowed by filter
func (s *QuotationService) List(ctx context.Context, filter ListFilter) ([]models.QuotationRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	return FilterQuotations(records, filter), nil
}

// FilterQuotations keeps the records matching the status filter and the
// free-text query. Order is preserved.
func FilterQuotations(records []models.QuotationRecord, filter ListFilter) []models.QuotationRecord {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]models.QuotationRecord, 0, len(records))
	for _, r := range records {
		if (status == FilterDraft || status == FilterFinalized) && r.Status != status {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(r.ClientName + " " + r.ProjectType + " " + r.Status)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Get returns one saved quotation
func (s *QuotationService) Get(ctx context.Context, id string) (*models.QuotationRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrQuotationNotFound
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "get")
	}
	return record, nil
}

// UpdateStatus moves a quotation to draft or finalized. Setting the status it
// already has is a no-op that performs no write.
func (s *QuotationService) UpdateStatus(ctx context.Context, id string, status string) (*models.QuotationRecord, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.StatusDraft && status != models.StatusFinalized {
		return nil, (utils.Violations{"status": "must_be_draft_or_finalized"}).Err()
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.mapRepoError(err, "update status of")
	}
	log.Printf("✅ UpdateStatus: id=%s %s → %s", id, current.Status, updated.Status)
	return updated, nil
}

// ToggleStatus flips draft ⇄ finalized
func (s *QuotationService) ToggleStatus(ctx context.Context, id string) (*models.QuotationRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	target := models.StatusFinalized
	if current.Status == models.StatusFinalized {
		target = models.StatusDraft
	}
	updated, err := s.repo.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, s.mapRepoError(err, "toggle status of")
	}
	return updated, nil
}

// Delete permanently removes a saved quotation
func (s *QuotationService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrQuotationNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, "delete")
	}
	log.Printf("✅ DeleteQuotation: id=%s", id)
	return nil
}

// Load makes a saved quotation the working quotation, reconciling its module
// snapshot against the live catalog. Returns the record and the new selection.
func (s *QuotationService) Load(ctx context.Context, id string, state *quotation.State) (*models.QuotationRecord, []int, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	selected := state.LoadRecord(*record)
	log.Printf("✅ LoadQuotation: id=%s client=%q selected=%v", id, record.ClientName, selected)
	return record, selected, nil
}

func (s *QuotationService) mapRepoError(err error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrQuotationNotFound
	}
	return fmt.Errorf("failed to %s quotation: %w", action, err)
}
