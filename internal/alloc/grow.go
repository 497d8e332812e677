// Package alloc computes capacity growth for growable buffers.
package alloc

import "math"

// Add adds a and b, returning ok = false when the result would overflow int
// or either operand is negative.
func Add(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// Grow returns the capacity a buffer of capacity current should grow to so
// that it holds at least required bytes. It returns current unchanged when
// nothing needs to grow.
//
// The growth rate is (current+16)*3/2, which keeps the number of
// reallocations logarithmic in the total number of bytes appended. The
// result saturates at math.MaxInt rather than wrapping around.
func Grow(current, required int) int {
	if required <= current {
		return current
	}
	next := math.MaxInt
	if current <= math.MaxInt/3*2-16 {
		base := current + 16
		next = base + base/2
	}
	if next < required {
		return required
	}
	return next
}
