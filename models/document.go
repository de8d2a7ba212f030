package models

import "time"

// Theme selects the document color palette
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns ThemeDark for "dark" and ThemeLight for anything else
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// CompanyInfo is the issuing organization printed on documents
type CompanyInfo struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LogoData string `json:"-"` // data URI, optional
}

// QuotationDocument is everything needed to render a quotation document.
// GeneratedAt is explicit so that preview and export render identically.
type QuotationDocument struct {
	ClientName  string
	ProjectType string
	Modules     []Module
	TotalLocal  int64
	USDRate     float64
	GeneratedAt time.Time
	Notes       string
	Terms       []string
}
