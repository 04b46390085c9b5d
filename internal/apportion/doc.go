// Package apportion divides an amount across weighted portions so that the parts sum
// exactly to the amount at the requested scale. Rounding error is walked through the
// portions in their given order by a BoundRule, so the caller's ordering decides which
// entries absorb the leftover minor units.
package apportion
