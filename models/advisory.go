package models

// AdvisoryRequest represents the request body for POST /advisor/query
// Example: {"kind": "suggest_modules", "prompt": "¿Qué módulos faltan?", "budget": 1500}
// kind values: analyze, suggest_modules, optimize, timeline, compare, price_research, general
type AdvisoryRequest struct {
	Kind   string  `json:"kind"`
	Prompt string  `json:"prompt"`
	Budget float64 `json:"budget,omitempty"` // USD, optional
}

// AdvisoryMetadata describes how an advisory response was produced
type AdvisoryMetadata struct {
	Kind             string  `json:"kind"`
	Model            string  `json:"model,omitempty"`
	ProcessingTimeMs int64   `json:"processingTimeMs"`
	ExchangeRate     float64 `json:"exchangeRate"`
}

// AdvisoryResponse is sanitized HTML advisory content plus any suggestions found in it
type AdvisoryResponse struct {
	Content     string             `json:"content"`
	Suggestions []ModuleSuggestion `json:"suggestions"`
	Metadata    AdvisoryMetadata   `json:"metadata"`
}

// InferenceLog represents a row in ai_inference_logs
type InferenceLog struct {
	Kind             string
	Prompt           string
	Response         string
	Model            string
	ProcessingTimeMs int64
	ExchangeRate     float64
}
