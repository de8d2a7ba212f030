package controller

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/service"
	"webnova-cotizador/utils"
)

// QuotationController handles HTTP requests on the working quotation
type QuotationController struct {
	state       *quotation.State
	rates       service.RateSource
	companyName string
	now         func() time.Time
}

// NewQuotationController creates a new QuotationController
func NewQuotationController(state *quotation.State, rates service.RateSource, companyName string) *QuotationController {
	return &QuotationController{
		state:       state,
		rates:       rates,
		companyName: companyName,
		now:         time.Now,
	}
}

func (c *QuotationController) view() models.QuotationView {
	v := c.state.View()
	v.ExchangeRate = c.rates.Rate()
	v.TotalUSD = utils.ToUSD(v.Total, v.ExchangeRate)
	return v
}

// GetQuotation handles GET /quotation
func (c *QuotationController) GetQuotation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.view())
}

// UpdateClient handles PUT /quotation/client
func (c *QuotationController) UpdateClient(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateClient: Received %s request to %s", r.Method, r.URL.Path)
	var req models.ClientRequest
	if !decodeJSON(w, r, "UpdateClient", &req) {
		return
	}
	c.state.SetClient(req.ClientName, req.ProjectType)
	writeJSON(w, http.StatusOK, c.view())
}

// AddModule handles POST /quotation/modules
func (c *QuotationController) AddModule(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddModule: Received %s request to %s", r.Method, r.URL.Path)
	var in models.ModuleInput
	if !decodeJSON(w, r, "AddModule", &in) {
		return
	}
	if err := quotation.ValidateModuleInput(in); err != nil {
		writeServiceError(w, "AddModule", err)
		return
	}
	m := c.state.AddModule(in)
	log.Printf("✅ AddModule: id=%d name=%q price=%s", m.ID, m.Name, utils.FormatDOP(m.Price))
	writeJSON(w, http.StatusCreated, m)
}

// EditModule handles PUT /quotation/modules/{id}
func (c *QuotationController) EditModule(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 EditModule: Received %s request to %s", r.Method, r.URL.Path)
	id, ok := moduleID(w, r, "EditModule")
	if !ok {
		return
	}
	var in models.ModuleInput
	if !decodeJSON(w, r, "EditModule", &in) {
		return
	}
	if err := quotation.ValidateModuleInput(in); err != nil {
		writeServiceError(w, "EditModule", err)
		return
	}
	m, err := c.state.EditModule(id, in)
	if err != nil {
		writeServiceError(w, "EditModule", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteModule handles DELETE /quotation/modules/{id}
func (c *QuotationController) DeleteModule(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 DeleteModule: Received %s request to %s", r.Method, r.URL.Path)
	id, ok := moduleID(w, r, "DeleteModule")
	if !ok {
		return
	}
	if err := c.state.DeleteModule(id); err != nil {
		writeServiceError(w, "DeleteModule", err)
		return
	}
	log.Printf("✅ DeleteModule: id=%d", id)
	writeJSON(w, http.StatusOK, c.view())
}

// ToggleModule handles POST /quotation/modules/{id}/toggle
func (c *QuotationController) ToggleModule(w http.ResponseWriter, r *http.Request) {
	id, ok := moduleID(w, r, "ToggleModule")
	if !ok {
		return
	}
	c.state.ToggleSelect(id)
	writeJSON(w, http.StatusOK, c.view())
}

// ClearSelection handles POST /quotation/clear
func (c *QuotationController) ClearSelection(w http.ResponseWriter, r *http.Request) {
	c.state.ClearSelection()
	writeJSON(w, http.StatusOK, c.view())
}

// AcceptSuggestion handles POST /quotation/suggestions/accept
func (c *QuotationController) AcceptSuggestion(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AcceptSuggestion: Received %s request to %s", r.Method, r.URL.Path)
	var sg models.ModuleSuggestion
	if !decodeJSON(w, r, "AcceptSuggestion", &sg) {
		return
	}
	if err := quotation.ValidateModuleInput(sg.Input()); err != nil {
		writeServiceError(w, "AcceptSuggestion", err)
		return
	}
	m := c.state.AcceptSuggestion(sg)
	log.Printf("✅ AcceptSuggestion: %q added as id=%d", m.Name, m.ID)
	writeJSON(w, http.StatusCreated, m)
}

// ExportSnapshot handles GET /quotation/export
// Responds with the JSON snapshot as a file download
func (c *QuotationController) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	now := c.now()
	snap := c.state.ExportSnapshot(now)
	filename := utils.QuotationFilename(c.companyName, snap.Client, now, "json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, snap)
}

// ImportSnapshot handles POST /quotation/import
// The body is a previously exported snapshot; invalid input leaves the quotation untouched
func (c *QuotationController) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ImportSnapshot: Received %s request to %s", r.Method, r.URL.Path)
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if err := c.state.ImportSnapshot(data); err != nil {
		writeServiceError(w, "ImportSnapshot", err)
		return
	}
	view := c.view()
	log.Printf("✅ ImportSnapshot: %d modules, %d selected", len(view.Modules), len(view.SelectedModuleIDs))
	writeJSON(w, http.StatusOK, view)
}
