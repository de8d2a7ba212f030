package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[/\\:*?"<>|]`)
)

// QuotationFilename builds the download name of an exported quotation:
// Cotizacion-<org>-<client>-<YYYY-MM-DD>.<ext>
// Example: Cotizacion-WebNovaLab-Rent-Car-RD-2026-03-14.pdf
func QuotationFilename(org, client string, date time.Time, ext string) string {
	parts := []string{"Cotizacion", slug(org), slug(client), date.Format("2006-01-02")}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-") + "." + strings.TrimPrefix(ext, ".")
}

// slug replaces whitespace runs with '-' and drops characters not allowed in file names
func slug(s string) string {
	s = unsafeChars.ReplaceAllString(strings.TrimSpace(s), "")
	return whitespace.ReplaceAllString(s, "-")
}
