package commands

import "strconv"

// formatAmount renders a currency amount with 2 decimal places for event
// payloads.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
