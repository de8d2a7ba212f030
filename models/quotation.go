package models

import "time"

// Quotation statuses stored in the quotations table
const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
)

// NormalizeStatus maps any stored status to draft or finalized
func NormalizeStatus(status string) string {
	if status == StatusFinalized {
		return StatusFinalized
	}
	return StatusDraft
}

// QuotationRecord represents a saved quotation in the database.
// SelectedModules is a snapshot taken at save time, not a live reference.
type QuotationRecord struct {
	ID                 string    `json:"id"`
	ClientName         string    `json:"clientName"`
	ClientEmail        string    `json:"clientEmail,omitempty"`
	ClientPhone        string    `json:"clientPhone,omitempty"`
	ProjectType        string    `json:"projectType"`
	Notes              string    `json:"notes,omitempty"`
	SelectedModules    []Module  `json:"selectedModules"`
	TotalLocal         int64     `json:"totalLocal"`
	TotalUSD           float64   `json:"totalUsd"`
	ExchangeRateAtSave float64   `json:"exchangeRateAtSave"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SaveQuotationRequest represents the data needed to persist a quotation.
// TotalLocal and TotalUSD are computed when left at zero.
// Example: {"clientName": "Rent Car RD", "projectType": "Reservas", "notes": "Cliente referido"}
type SaveQuotationRequest struct {
	ClientName      string   `json:"clientName"`
	ClientEmail     string   `json:"clientEmail,omitempty"`
	ClientPhone     string   `json:"clientPhone,omitempty"`
	ProjectType     string   `json:"projectType"`
	Notes           string   `json:"notes,omitempty"`
	SelectedModules []Module `json:"selectedModules"`
	TotalLocal      int64    `json:"totalLocal,omitempty"`
	TotalUSD        float64  `json:"totalUsd,omitempty"`
}

// UpdateStatusRequest represents the request body for changing a quotation status
// Example: {"status": "finalized"}
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// QuotationListResponse represents the response for listing saved quotations
type QuotationListResponse struct {
	Quotations []QuotationRecord `json:"quotations"`
	Total      int               `json:"total"`
}

// QuotationFile is the downloadable JSON snapshot of the working quotation.
// Example:
// {
//   "client": "Rent Car RD",
//   "projectType": "Reservas",
//   "modules": [{"id": 1, "name": "Landing Page", "price": 3500, "description": "..."}],
//   "selected": [1],
//   "timestamp": "2026-01-04T10:30:00Z",
//   "version": "3.0",
//   "totalAmount": 3500
// }
type QuotationFile struct {
	Client      string   `json:"client"`
	ProjectType string   `json:"projectType"`
	Modules     []Module `json:"modules"`
	Selected    []int    `json:"selected"`
	Timestamp   string   `json:"timestamp"`
	Version     string   `json:"version"`
	TotalAmount int64    `json:"totalAmount"`
}

// QuotationFileVersion is written into every exported snapshot
const QuotationFileVersion = "3.0"

// RecoveryData is the crash-recovery value stored under the recovery key
type RecoveryData struct {
	ClientName        string   `json:"clientName"`
	ProjectType       string   `json:"projectType"`
	Modules           []Module `json:"modules"`
	SelectedModuleIDs []int    `json:"selectedModuleIds"`
	NextID            int      `json:"nextId"`
}

// QuotationView represents the live quotation returned by GET /quotation
type QuotationView struct {
	ClientName        string   `json:"clientName"`
	ProjectType       string   `json:"projectType"`
	Modules           []Module `json:"modules"`
	SelectedModuleIDs []int    `json:"selectedModuleIds"`
	SelectedModules   []Module `json:"selectedModules"`
	NextID            int      `json:"nextId"`
	Total             int64    `json:"total"`
	TotalUSD          float64  `json:"totalUsd"`
	ExchangeRate      float64  `json:"exchangeRate"`
}

// ClientRequest represents the request body for updating client information
// Example: {"clientName": "Rent Car RD", "projectType": "Plataforma de reservas"}
type ClientRequest struct {
	ClientName  string `json:"clientName"`
	ProjectType string `json:"projectType"`
}
