package controller

import (
	"log"
	"net/http"

	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/service"
)

// VaultController handles HTTP requests for saved quotations.
// Without a database the service is nil and every route answers 503.
type VaultController struct {
	quotations *service.QuotationService
	state      *quotation.State
}

// NewVaultController creates a new VaultController
func NewVaultController(quotations *service.QuotationService, state *quotation.State) *VaultController {
	return &VaultController{quotations: quotations, state: state}
}

func (c *VaultController) available(w http.ResponseWriter, op string) bool {
	if c.quotations == nil {
		log.Printf("⚠️  %s: quotation vault is not configured", op)
		writeError(w, http.StatusServiceUnavailable, "vault_unavailable", "database is not configured")
		return false
	}
	return true
}

// SaveQuotation handles POST /quotations
// Saves the working quotation; the optional body carries contact details and notes
func (c *VaultController) SaveQuotation(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SaveQuotation: Received %s request to %s", r.Method, r.URL.Path)
	if !c.available(w, "SaveQuotation") {
		return
	}
	var extras service.SaveExtras
	if !decodeOptionalJSON(w, r, "SaveQuotation", &extras) {
		return
	}
	record, err := c.quotations.SaveCurrent(r.Context(), c.state, extras)
	if err != nil {
		writeServiceError(w, "SaveQuotation", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// ListQuotations handles GET /quotations?status=draft|finalized|all&q=text
func (c *VaultController) ListQuotations(w http.ResponseWriter, r *http.Request) {
	if !c.available(w, "ListQuotations") {
		return
	}
	filter := service.ListFilter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}
	records, err := c.quotations.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "ListQuotations", err)
		return
	}
	log.Printf("✅ ListQuotations: %d results (status=%q q=%q)", len(records), filter.Status, filter.Query)
	writeJSON(w, http.StatusOK, models.QuotationListResponse{Quotations: records, Total: len(records)})
}

// GetQuotation handles GET /quotations/{id}
func (c *VaultController) GetQuotation(w http.ResponseWriter, r *http.Request) {
	if !c.available(w, "GetQuotation") {
		return
	}
	record, err := c.quotations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "GetQuotation", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// UpdateStatus handles PATCH /quotations/{id}/status
// An empty body toggles draft ⇄ finalized
func (c *VaultController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateStatus: Received %s request to %s", r.Method, r.URL.Path)
	if !c.available(w, "UpdateStatus") {
		return
	}
	var req models.UpdateStatusRequest
	if !decodeOptionalJSON(w, r, "UpdateStatus", &req) {
		return
	}

	var (
		record *models.QuotationRecord
		err    error
	)
	if req.Status == "" {
		record, err = c.quotations.ToggleStatus(r.Context(), r.PathValue("id"))
	} else {
		record, err = c.quotations.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	}
	if err != nil {
		writeServiceError(w, "UpdateStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// DeleteQuotation handles DELETE /quotations/{id}
func (c *VaultController) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 DeleteQuotation: Received %s request to %s", r.Method, r.URL.Path)
	if !c.available(w, "DeleteQuotation") {
		return
	}
	if err := c.quotations.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, "DeleteQuotation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadQuotation handles POST /quotations/{id}/load
// Makes the saved quotation the working quotation
func (c *VaultController) LoadQuotation(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 LoadQuotation: Received %s request to %s", r.Method, r.URL.Path)
	if !c.available(w, "LoadQuotation") {
		return
	}
	if _, _, err := c.quotations.Load(r.Context(), r.PathValue("id"), c.state); err != nil {
		writeServiceError(w, "LoadQuotation", err)
		return
	}
	writeJSON(w, http.StatusOK, c.state.View())
}
