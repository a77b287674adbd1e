package kernel

import "math"

// RoundMoney rounds a currency amount to 2 decimal places using round-half-up.
// All monetary values in the marketplace (fees, VAT, totals, earnings) are
// normalized through this function so that arithmetic invariants hold exactly
// at cent precision.
//
// Example:
//
//	kernel.RoundMoney(5.005)  // 5.01
//	kernel.RoundMoney(2.674)  // 2.67
func RoundMoney(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}
