package channels

import "context"

// Submit writes value to channel unless the context is done first. Returns true if the value was written.
func Submit[T any](ctx context.Context, channel chan<- T, value T) bool {
	select {
	case <-ctx.Done():
		return false

	case channel <- value:
		return true
	}
}

// Receive reads a value from channel unless the context is done first or the channel is closed.
func Receive[T any](ctx context.Context, channel <-chan T) (T, bool) {
	select {
	case <-ctx.Done():
		var empty T
		return empty, false

	case value, ok := <-channel:
		return value, ok
	}
}

// ConcurrencyLimiter bounds how many holders may run at once.
type ConcurrencyLimiter struct {
	slotC chan struct{}
}

func NewConcurrencyLimiter(numSlots int) ConcurrencyLimiter {
	return ConcurrencyLimiter{
		slotC: make(chan struct{}, max(numSlots, 1)),
	}
}

// Acquire blocks until a slot is free or the context is done. Returns true when a slot was taken; the caller must
// then call Release.
func (s ConcurrencyLimiter) Acquire(ctx context.Context) bool {
	return Submit(ctx, s.slotC, struct{}{})
}

func (s ConcurrencyLimiter) Release() {
	<-s.slotC
}
