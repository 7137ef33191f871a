package notification

import (
	"regexp"
	"strings"
)

var (
	phoneStripRe = regexp.MustCompile(`[^0-9+]`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// NormalizePhone canonicalizes a raw phone number: everything except digits
// and a leading + is stripped; a bare 10-digit number gets the default
// country code. Heuristic by design, it does not validate per-country
// lengths.
func NormalizePhone(raw, defaultCountryCode string) string {
	cleaned := phoneStripRe.ReplaceAllString(raw, "")
	if i := strings.LastIndex(cleaned, "+"); i > 0 {
		// A + anywhere but the front is junk from the stripped input.
		cleaned = strings.ReplaceAll(cleaned, "+", "")
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	if len(cleaned) == 10 {
		return defaultCountryCode + cleaned
	}
	return "+" + cleaned
}

// ValidEmail accepts only minimally well-formed local@domain.tld addresses.
// Anything else is rejected before a provider is ever called.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
