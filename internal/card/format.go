package card

import (
	"fmt"
	"strings"
)

// Normalize strips the grouping characters a form inserts while formatting a
// card number (spaces and hyphens). Any other character is kept so the
// validator can still flag it.
func Normalize(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// Mask hides everything but the first six and last four characters of a
// normalised card number. Numbers of ten characters or fewer keep only the
// last four.
func Mask(number string) string {
	runes := []rune(Normalize(number))
	n := len(runes)

	switch {
	case n == 0:
		return ""
	case n <= 4:
		return strings.Repeat("*", n)
	case n <= 10:
		return strings.Repeat("*", n-4) + string(runes[n-4:])
	}

	var masked strings.Builder
	masked.Grow(n)
	masked.WriteString(string(runes[:6]))
	masked.WriteString(strings.Repeat("*", n-10))
	masked.WriteString(string(runes[n-4:]))
	return masked.String()
}

// AutocompleteMonth pads a single month digit that cannot start a two-digit
// month, so "4" becomes "04". Other input is returned unchanged.
func AutocompleteMonth(input string) string {
	if len(input) == 1 && input[0] >= '2' && input[0] <= '9' {
		return "0" + input
	}
	return input
}

// FormatExpiry renders a month and two-digit year as "MM/YY".
func FormatExpiry(month, year int) string {
	return fmt.Sprintf("%02d/%02d", month, year)
}

// isNumeric reports whether s is non-empty and made only of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
