package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDOP(t *testing.T) {
	assert.Equal(t, "RD$0", FormatDOP(0))
	assert.Equal(t, "RD$950", FormatDOP(950))
	assert.Equal(t, "RD$3,500", FormatDOP(3500))
	assert.Equal(t, "RD$1,000", FormatDOP(1000))
	assert.Equal(t, "RD$100,000", FormatDOP(100000))
	assert.Equal(t, "RD$1,234,567", FormatDOP(1234567))
	assert.Equal(t, "-RD$12,500", FormatDOP(-12500))
	assert.Equal(t, "US$1,250", FormatUSD(1250))
}

func TestToUSD(t *testing.T) {
	assert.Equal(t, 355.37, ToUSD(21500, 60.5))
	assert.Equal(t, 0.0, ToUSD(21500, 0))
	assert.Equal(t, 0.0, ToUSD(0, 60.5))
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"12500":          12500,
		"RD$ 12,500":     12500,
		"RD$12,500.00":   12500,
		"$3.500":         3500,
		"12500.75":       12501,
		"1.234.567,40":   1234567,
		"1,5":            2,
		"aprox. 8000 RD": 8000,
		"45,000.60 pesos": 45001,
	}
	for in, want := range cases {
		got, ok := ParseAmount(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "a convenir", "RD$", "..."} {
		_, ok := ParseAmount(in)
		assert.False(t, ok, in)
	}
}

func TestQuotationFilename(t *testing.T) {
	date := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "Cotizacion-WebNovaLab-Rent-Car-RD-2026-03-14.pdf",
		QuotationFilename("WebNovaLab", "  Rent Car   RD ", date, "pdf"))
	assert.Equal(t, "Cotizacion-Web-Nova-Lab-AB-2026-03-14.png",
		QuotationFilename("Web Nova Lab", "A/B", date, ".png"))
}

func TestViolations(t *testing.T) {
	v := Violations{}
	Required("clientName", " ", v)
	NonNegative("price", -1, v)
	NotEmpty("modules", 0, v)

	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: clientName required, modules required, price must_not_be_negative", err.Error())

	assert.NoError(t, Violations{}.Err())
}
