package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"webnova-cotizador/models"
	"webnova-cotizador/quotation"
	"webnova-cotizador/service"
	"webnova-cotizador/utils"
)

// DocumentController serves rendered quotation documents
type DocumentController struct {
	documents *service.DocumentService
	state     *quotation.State
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documents *service.DocumentService, state *quotation.State) *DocumentController {
	return &DocumentController{documents: documents, state: state}
}

// GetDocument handles GET /quotation/document?format=html|png|pdf&theme=light|dark&notes=...
func (c *DocumentController) GetDocument(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetDocument: Received %s request to %s", r.Method, r.URL.String())

	query := r.URL.Query()
	format := query.Get("format")
	switch format {
	case "":
		format = service.FormatPDF
	case service.FormatHTML, service.FormatPDF, service.FormatPNG:
	default:
		writeError(w, http.StatusBadRequest, "invalid_format", "format must be html, png or pdf")
		return
	}

	doc, err := c.documents.ExportQuotation(r.Context(), c.state, format, models.ParseTheme(query.Get("theme")), query.Get("notes"))
	if err != nil {
		if errors.Is(err, utils.ErrValidation) {
			writeServiceError(w, "GetDocument", err)
			return
		}
		log.Printf("❌ GetDocument: %v", err)
		writeError(w, http.StatusInternalServerError, "document_generation_failed", err.Error())
		return
	}

	disposition := "inline"
	if format == service.FormatPDF {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		log.Printf("❌ GetDocument: Error writing response: %v", err)
	}
}
