// Package sequence contains the pure ordering-key arithmetic used to position
// tasks and states inside ordered lists without renumbering neighbours.
package sequence

import "math"

// Gap is the increment used when appending past the last known sequence.
const Gap = 10000.0

// MinSpacing is the smallest distance between adjacent keys that is still
// considered safely orderable.
const MinSpacing = 1e-6

// Allocate returns a sequence that places an item between previous and next.
// Either neighbour may be nil. previous < next is the caller's responsibility.
func Allocate(previous, next *float64) float64 {
	switch {
	case previous != nil && next != nil:
		return (*previous + *next) / 2
	case previous != nil:
		return *previous + Gap
	case next != nil:
		return *next / 2
	default:
		return Gap
	}
}

// Append returns the sequence of the k-th item appended after tail (k starts at 1).
// A nil tail means the group is empty.
func Append(tail *float64, k int) float64 {
	base := 0.0
	if tail != nil {
		base = *tail
	}
	return base + Gap*float64(k)
}

// Exhausted reports whether result can no longer be told apart from its
// neighbours. Inverted neighbours (previous >= next) are not reported.
func Exhausted(previous, next *float64, result float64) bool {
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return true
	}
	if previous != nil && next != nil && *previous >= *next {
		return false
	}
	if previous != nil && (result <= *previous || result-*previous < MinSpacing) {
		return true
	}
	if next != nil {
		if result >= *next || *next-result < MinSpacing {
			return true
		}
		// next/2 converges on zero
		if previous == nil && result < MinSpacing {
			return true
		}
	}
	return false
}

// Renumber returns n evenly spaced sequences starting at Gap.
func Renumber(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Gap * float64(i+1)
	}
	return out
}

// Ptr is a convenience for building optional neighbour values.
func Ptr(v float64) *float64 {
	return &v
}
