// Package numeric holds the lenient parsing helpers the booking core relies
// on. Candidate data arrives as strings from the search backend and may be
// malformed; every helper here degrades to a zero value instead of
// returning an error so a bad record never stops a list from rendering.
package numeric

import (
	"strconv"
	"strings"
	"time"
)

// Float parses the leading decimal prefix of s, the way parseFloat does:
// "12500.50 INR" parses as 12500.5. The second return is false when s has
// no usable numeric prefix.
func Float(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	end := 0
	if s[end] == '+' || s[end] == '-' {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FloatOrZero is Float with the failure case collapsed to 0.
func FloatOrZero(s string) float64 {
	v, _ := Float(s)
	return v
}

// Price resolves a fare's effective price: total price when parseable,
// otherwise base price, otherwise 0.
func Price(totalPrice, basePrice string) float64 {
	if v, ok := Float(totalPrice); ok {
		return v
	}
	if v, ok := Float(basePrice); ok {
		return v
	}
	return 0
}

// FormatAmount renders a summed price back into the backend's two-decimal
// string form.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Time parses a backend timestamp. Backends are inconsistent about zone
// suffixes and second precision, so a few layouts are tried in order.
func Time(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
