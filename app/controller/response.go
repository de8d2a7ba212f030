package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"webnova-cotizador/quotation"
	"webnova-cotizador/service"
	"webnova-cotizador/utils"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// writeServiceError maps domain errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Printf("❌ %s: %v", op, err)
		writeError(w, http.StatusBadRequest, "validation_failed", verr.Fields)
	case errors.Is(err, quotation.ErrInvalidSnapshot):
		log.Printf("❌ %s: %v", op, err)
		writeError(w, http.StatusBadRequest, "invalid_snapshot", err.Error())
	case errors.Is(err, quotation.ErrModuleNotFound):
		log.Printf("❌ %s: %v", op, err)
		writeError(w, http.StatusNotFound, "module_not_found", nil)
	case errors.Is(err, service.ErrQuotationNotFound):
		log.Printf("❌ %s: %v", op, err)
		writeError(w, http.StatusNotFound, "quotation_not_found", nil)
	case errors.Is(err, service.ErrAllModelsFailed):
		log.Printf("❌ %s: %v", op, err)
		writeError(w, http.StatusBadGateway, "advisor_unavailable", nil)
	default:
		log.Printf("❌ %s: unexpected error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// decodeJSON reads a bounded JSON body into dst, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("❌ %s: Failed to decode request body: %v", op, err)
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return false
	}
	return true
}

// decodeOptionalJSON is decodeJSON for bodies that may be absent; an empty
// body, with or without a declared length, leaves dst untouched
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	if r.ContentLength == 0 {
		return true
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ %s: Failed to decode request body: %v", op, err)
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return false
	}
	return true
}

// moduleID reads the {id} path segment as a module id
func moduleID(w http.ResponseWriter, r *http.Request, op string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		log.Printf("❌ %s: Invalid module id %q", op, r.PathValue("id"))
		writeError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return id, true
}
