package atomics

import "sync/atomic"

// Counter hands out tickets. Each call returns the next unclaimed ticket and true, or false once every ticket below
// the counter's maximum has been claimed.
type Counter[T uint32 | uint64] func() (T, bool)

// NewCounter returns a Counter that hands out the tickets [0, maximum) exactly once each across any number of
// goroutines.
//
// Each call loads the current value and, if it is below the maximum, attempts to compare-and-swap it with the value
// +1. A successful swap claims the loaded value as the caller's ticket. A failed swap means another goroutine
// claimed it first, in which case the loop reloads and retries.
func NewCounter[T uint32 | uint64](maximum T) Counter[T] {
	var (
		counter = &atomic.Uint64{}
		limit   = uint64(maximum)
	)

	return func() (T, bool) {
		for currentValue := counter.Load(); currentValue < limit; currentValue = counter.Load() {
			if counter.CompareAndSwap(currentValue, currentValue+1) {
				return T(currentValue), true
			}
		}

		return 0, false
	}
}
