package apportion

import "github.com/shopspring/decimal"

// BoundRule applies as much of remaining as it can to current, where original is the
// entry's un-apportioned portion. It returns the adjusted value and the error left over.
type BoundRule func(current, original, remaining decimal.Decimal) (adjusted, leftover decimal.Decimal)

// Unconstrained hands the whole positive error to the first entry it sees.
func Unconstrained(current, _ decimal.Decimal, remaining decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if remaining.IsNegative() {
		return floorAtZero(current, remaining)
	}
	return current.Add(remaining), decimal.Zero
}

// UpperBounded never lets an entry exceed its original portion; excess carries forward.
func UpperBounded(current, original, remaining decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if remaining.IsNegative() {
		return floorAtZero(current, remaining)
	}
	headroom := original.Sub(current)
	if !headroom.IsPositive() {
		return current, remaining
	}
	if remaining.LessThanOrEqual(headroom) {
		return current.Add(remaining), decimal.Zero
	}
	return original, remaining.Sub(headroom)
}

func floorAtZero(current, remaining decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	next := current.Add(remaining)
	if next.IsNegative() {
		return decimal.Zero, next
	}
	return next, decimal.Zero
}
