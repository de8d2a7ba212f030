package router

import (
	"log"
	"net/http"
	"time"

	"webnova-cotizador/app/controller"
)

// Controllers groups the handlers SetupRoutes registers
type Controllers struct {
	Quotation    *controller.QuotationController
	Document     *controller.DocumentController
	Vault        *controller.VaultController
	Advisory     *controller.AdvisoryController
	ExchangeRate *controller.ExchangeRateController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on a new mux. Unsupported methods get 405 from the mux.
func SetupRoutes(controllers *Controllers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	// Working quotation
	mux.HandleFunc("GET /quotation", controllers.Quotation.GetQuotation)
	mux.HandleFunc("PUT /quotation/client", controllers.Quotation.UpdateClient)
	mux.HandleFunc("POST /quotation/modules", controllers.Quotation.AddModule)
	mux.HandleFunc("PUT /quotation/modules/{id}", controllers.Quotation.EditModule)
	mux.HandleFunc("DELETE /quotation/modules/{id}", controllers.Quotation.DeleteModule)
	mux.HandleFunc("POST /quotation/modules/{id}/toggle", controllers.Quotation.ToggleModule)
	mux.HandleFunc("POST /quotation/clear", controllers.Quotation.ClearSelection)
	mux.HandleFunc("GET /quotation/export", controllers.Quotation.ExportSnapshot)
	mux.HandleFunc("POST /quotation/import", controllers.Quotation.ImportSnapshot)
	mux.HandleFunc("POST /quotation/suggestions/accept", controllers.Quotation.AcceptSuggestion)
	mux.HandleFunc("GET /quotation/document", controllers.Document.GetDocument)

	// Saved quotations
	mux.HandleFunc("POST /quotations", controllers.Vault.SaveQuotation)
	mux.HandleFunc("GET /quotations", controllers.Vault.ListQuotations)
	mux.HandleFunc("GET /quotations/{id}", controllers.Vault.GetQuotation)
	mux.HandleFunc("PATCH /quotations/{id}/status", controllers.Vault.UpdateStatus)
	mux.HandleFunc("DELETE /quotations/{id}", controllers.Vault.DeleteQuotation)
	mux.HandleFunc("POST /quotations/{id}/load", controllers.Vault.LoadQuotation)

	// Exchange rate
	mux.HandleFunc("GET /exchange-rate", controllers.ExchangeRate.GetRate)
	mux.HandleFunc("POST /exchange-rate/refresh", controllers.ExchangeRate.Refresh)

	// AI advisor
	mux.HandleFunc("POST /advisor/query", controllers.Advisory.Query)

	return logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests writes one line per finished request
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/ping" {
			return
		}
		log.Printf("%s %s → %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
