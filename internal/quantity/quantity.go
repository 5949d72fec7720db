// Package quantity holds the rules applied to every requested cart quantity.
package quantity

import "math"

// Normalize turns a requested quantity into a whole number.
// Non-finite input means "one unit"; anything else is floored and saturates
// at the int range.
func Normalize(q float64) int {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 1
	}
	f := math.Floor(q)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// Clamp limits q to maxQty when a max is declared.
func Clamp(q int, maxQty *int) int {
	if maxQty == nil {
		return q
	}
	return min(q, *maxQty)
}

// Add is a + b saturating at the int range.
func Add(a, b int) int {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt
	case b < 0 && s > a:
		return math.MinInt
	}
	return s
}
