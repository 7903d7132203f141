package domain

import "math"

// Monetary amounts carry 2 fraction digits end-to-end. Rounding happens
// once, at the point each published amount is produced.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountsEqual compares two published amounts at 2-digit precision.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
