package utils

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// FormatDOP formats an integer amount (in RD$) as a string like "RD$12,500".
// Uses comma as thousands separator (common in the Dominican Republic).
func FormatDOP(amount int64) string {
	return formatGrouped("RD$", amount)
}

// FormatUSD formats a whole-dollar amount as a string like "US$1,250"
func FormatUSD(amount int64) string {
	return formatGrouped("US$", amount)
}

// formatGrouped writes amount after symbol with a comma every three digits
func formatGrouped(symbol string, amount int64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	digits := strconv.FormatInt(amount, 10)
	groups := make([]string, 0, len(digits)/3+1)
	for len(digits) > 3 {
		groups = append(groups, digits[len(digits)-3:])
		digits = digits[:len(digits)-3]
	}
	groups = append(groups, digits)
	slices.Reverse(groups)
	return sign + symbol + strings.Join(groups, ",")
}

// ToUSD converts a local amount with rate (RD$ per USD), rounded to cents.
// A non-positive rate yields 0.
func ToUSD(local int64, rate float64) float64 {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return math.Round(float64(local)/rate*100) / 100
}

// ParseAmount reads a human written price such as "RD$ 12,500", "12500.75" or
// "$3.500" into whole currency units, rounding decimals. The second return is
// false when no number could be read.
func ParseAmount(s string) (int64, bool) {
	var digits strings.Builder
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case (r == '.' || r == ',') && digits.Len() > 0:
			digits.WriteRune(r)
		case digits.Len() > 0:
			// stop at the first non-numeric rune after the number started
			break scan
		}
	}
	n := digits.String()
	if n == "" {
		return 0, false
	}
	n = normalizeSeparators(n)
	f, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// normalizeSeparators decides which of ',' and '.' is the decimal mark and
// returns a string strconv can parse. A separator followed by exactly three
// digits, with no other kind of separator, is treated as a thousands mark.
func normalizeSeparators(n string) string {
	lastComma := strings.LastIndex(n, ",")
	lastDot := strings.LastIndex(n, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot > lastComma {
			return strings.ReplaceAll(n, ",", "")
		}
		n = strings.ReplaceAll(n, ".", "")
		return strings.Replace(n, ",", ".", 1)
	case lastComma >= 0:
		if strings.Count(n, ",") == 1 && len(n)-lastComma-1 != 3 {
			return strings.Replace(n, ",", ".", 1)
		}
		return strings.ReplaceAll(n, ",", "")
	case lastDot >= 0:
		if strings.Count(n, ".") == 1 && len(n)-lastDot-1 != 3 {
			return n
		}
		return strings.ReplaceAll(n, ".", "")
	}
	return n
}
