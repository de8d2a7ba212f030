package service

import "errors"

var (
	// ErrQuotationNotFound is returned when a saved quotation id does not exist
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrAllModelsFailed is returned when every configured completion model failed
	ErrAllModelsFailed = errors.New("all models failed")

	// ErrNoRate is returned by a rate fetcher when no source produced a usable rate
	ErrNoRate = errors.New("no exchange rate available")
)
