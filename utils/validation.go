package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is matched by every *ValidationError
var ErrValidation = errors.New("validation failed")

// Violations maps a field name to a short violation code
type Violations map[string]string

// Empty reports whether no violation was recorded
func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns nil when empty, otherwise a *ValidationError
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

// Required records "required" when value is blank
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// NonNegative records "must_not_be_negative" for negative amounts
func NonNegative(field string, val int64, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

// NotEmpty records "required" when n is zero
func NotEmpty(field string, n int, v Violations) {
	if n == 0 {
		v[field] = "required"
	}
}

// ValidationError carries the violated fields of a rejected input
type ValidationError struct {
	Fields Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
