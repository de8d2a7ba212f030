package controller

import (
	"log"
	"net/http"

	"webnova-cotizador/models"
	"webnova-cotizador/service"
)

// AdvisoryController handles questions to the AI advisor
type AdvisoryController struct {
	advisor *service.AdvisoryService
}

// NewAdvisoryController creates a new AdvisoryController
func NewAdvisoryController(advisor *service.AdvisoryService) *AdvisoryController {
	return &AdvisoryController{advisor: advisor}
}

type advisoryErrorResponse struct {
	*models.AdvisoryResponse
	Error string `json:"error"`
}

// Query handles POST /advisor/query
// On backend failure the canned error block is still returned as content, with status 502
func (c *AdvisoryController) Query(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AdvisorQuery: Received %s request to %s", r.Method, r.URL.Path)
	var req models.AdvisoryRequest
	if !decodeJSON(w, r, "AdvisorQuery", &req) {
		return
	}

	resp, err := c.advisor.Query(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case r.Context().Err() != nil:
		log.Printf("⚠️  AdvisorQuery: client went away, answer discarded")
	case resp != nil:
		writeJSON(w, http.StatusBadGateway, advisoryErrorResponse{AdvisoryResponse: resp, Error: "advisor_unavailable"})
	default:
		writeServiceError(w, "AdvisorQuery", err)
	}
}
