package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsInstitutionalEmail reports whether email ends with the allowed domain
// (e.g. "@psu.edu"). Comparison is case-insensitive.
func IsInstitutionalEmail(email, domain string) bool {
	return strings.HasSuffix(strings.ToLower(email), strings.ToLower(domain))
}

// IsValidPassword requires at least 8 characters.
func IsValidPassword(password string) bool {
	return len(password) >= 8
}

// ParsePrice parses a price string or number into a non-negative float.
// Returns false for missing, malformed, negative, or non-finite values.
// ParseFloat accepts "Inf" and "NaN", and an infinite price would overflow
// the cent conversion at checkout, so finiteness is checked explicitly.
func ParsePrice(v interface{}) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, priceOK(p)
	case int:
		return float64(p), p >= 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, false
		}
		return f, priceOK(f)
	default:
		return 0, false
	}
}

func priceOK(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
