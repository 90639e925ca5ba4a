package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrBadPrice = errors.New("invalid price")

const (
	maxPriceDigits = 7
	// MaxPriceCents is the highest price a product can carry, 9999999.99.
	MaxPriceCents = 999_999_999
)

// ParsePriceCents reads "12", "12.5", "12.50" or "12,50" as cents.
// Fraction digits past the second are dropped; whole parts longer than seven
// digits are refused.
func ParsePriceCents(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, ErrBadPrice
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(whole) > maxPriceDigits {
		return 0, ErrBadPrice
	}
	dollars, err := strconv.Atoi(whole)
	if err != nil {
		return 0, ErrBadPrice
	}
	cents := 0
	if hasFrac && frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		if len(frac) > 2 {
			frac = frac[:2]
		}
		if cents, err = strconv.Atoi(frac); err != nil || cents < 0 {
			return 0, ErrBadPrice
		}
	}
	return dollars*100 + cents, nil
}

// FormatPrice renders cents as "12.50".
func FormatPrice(cents int) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}

// Slugify lowercases name and joins its letters and digits with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
