package models

import "math"

// Round6 rounds a monetary amount to the 6 decimal places the balance
// columns carry.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
