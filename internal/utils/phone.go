package utils

import (
	"strings"
)

// NormalizePhone strips everything but digits and rewrites the +82 country
// prefix to a leading 0. Returns "" when fewer than 9 digits remain.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "82") && strings.HasPrefix(strings.TrimSpace(raw), "+") {
		digits = "0" + strings.TrimPrefix(digits, "82")
	}

	if len(digits) < 9 {
		return ""
	}
	return digits
}
