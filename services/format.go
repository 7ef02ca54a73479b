package services

import (
	"fmt"
	"strings"
)

// FormatMoney formats an amount with the policy's currency symbol,
// thousands separators and exactly 2 decimal places, e.g. $12,345.60.
func FormatMoney(symbol string, amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := symbol + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}

// FormatHours renders an hours figure for reports, trimming to 2
// decimals but dropping a trailing ".00".
func FormatHours(h float64) string {
	s := fmt.Sprintf("%.2f", h)
	s = strings.TrimSuffix(s, "0")
	s = strings.TrimSuffix(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + " h"
}
