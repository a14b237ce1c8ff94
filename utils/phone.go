// Package utils provides utility functions for the application.
package utils

import "strings"

// NormalizePhone canonicalizes a raw phone string to a digits-only form
// with the Russian country code prefix ("7XXXXXXXXXX"). Formatting
// characters (spaces, dashes, parentheses, leading "+") are stripped and
// the "8" trunk prefix is rewritten to "7", so "+7 900 123 45 67",
// "8 (900) 123-45-67" and "79001234567" all normalize to the same value.
//
// Input that does not contain a plausible number normalizes to the empty
// string, which matches nothing. Matching is best-effort; this function
// never rejects.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && digits[0] == '8':
		return "7" + digits[1:]
	case len(digits) == 11 && digits[0] == '7':
		return digits
	case len(digits) == 10:
		// Local form without trunk or country prefix.
		return "7" + digits
	default:
		return ""
	}
}

// PhonesEqual reports whether two raw phone strings refer to the same
// normalized number. Two malformed numbers are never equal.
func PhonesEqual(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
