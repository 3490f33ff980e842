package container

import (
	"sync"

	"github.com/gammazero/deque"
)

// ThreadSafeDeque is a double-ended queue guarded by a single exclusive lock. Size queries take the same lock as
// mutations so that every call is linearizable against every other call on the same instance. The zero value is an
// empty deque ready for use.
type ThreadSafeDeque[T any] struct {
	lock   sync.Mutex
	buffer deque.Deque[T]
}

func NewThreadSafeDeque[T any](values ...T) *ThreadSafeDeque[T] {
	newDeque := &ThreadSafeDeque[T]{}
	newDeque.buffer.Grow(len(values))

	for _, value := range values {
		newDeque.buffer.PushBack(value)
	}

	return newDeque
}

func NewThreadSafeDequeWithCapacity[T any](capacity int) *ThreadSafeDeque[T] {
	newDeque := &ThreadSafeDeque[T]{}
	newDeque.buffer.Grow(capacity)

	return newDeque
}

// CloneThreadSafeDeque returns a new deque holding a copy of the other deque's contents.
func CloneThreadSafeDeque[T any](other *ThreadSafeDeque[T]) *ThreadSafeDeque[T] {
	clone := &ThreadSafeDeque[T]{}
	clone.CopyFrom(other)

	return clone
}

func copyDeque[T any](dst, src *deque.Deque[T]) {
	dst.Clear()
	dst.Grow(src.Len())

	for idx := 0; idx < src.Len(); idx++ {
		dst.PushBack(src.At(idx))
	}
}

// CopyFrom replaces the contents of this deque with a copy of the other deque's contents. Both locks are held for
// the transfer.
func (s *ThreadSafeDeque[T]) CopyFrom(other *ThreadSafeDeque[T]) {
	if s == other {
		return
	}

	lockPair(&s.lock, &other.lock)
	defer unlockPair(&s.lock, &other.lock)

	copyDeque(&s.buffer, &other.buffer)
}

// MoveFrom transfers the other deque's buffer into this deque, leaving the other deque empty. Both locks are held
// for the transfer.
func (s *ThreadSafeDeque[T]) MoveFrom(other *ThreadSafeDeque[T]) {
	if s == other {
		return
	}

	lockPair(&s.lock, &other.lock)
	defer unlockPair(&s.lock, &other.lock)

	s.buffer = other.buffer
	other.buffer = deque.Deque[T]{}
}

// Swap exchanges the contents of this deque with the other deque. Swapping a deque with itself does nothing.
func (s *ThreadSafeDeque[T]) Swap(other *ThreadSafeDeque[T]) {
	if s == other {
		return
	}

	lockPair(&s.lock, &other.lock)
	defer unlockPair(&s.lock, &other.lock)

	s.buffer, other.buffer = other.buffer, s.buffer
}

func (s *ThreadSafeDeque[T]) PushFront(values ...T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, value := range values {
		s.buffer.PushFront(value)
	}
}

func (s *ThreadSafeDeque[T]) PushBack(values ...T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, value := range values {
		s.buffer.PushBack(value)
	}
}

// EmplaceFront pushes the value produced by construct onto the front. The constructor runs while the lock is held
// and must not call back into this deque.
func (s *ThreadSafeDeque[T]) EmplaceFront(construct func() T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.buffer.PushFront(construct())
}

// EmplaceBack pushes the value produced by construct onto the back. The constructor runs while the lock is held
// and must not call back into this deque.
func (s *ThreadSafeDeque[T]) EmplaceBack(construct func() T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.buffer.PushBack(construct())
}

// PopFront removes and returns the front element. The boolean is false when the deque was empty at the time the lock
// was acquired.
func (s *ThreadSafeDeque[T]) PopFront() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.buffer.Len() == 0 {
		var empty T
		return empty, false
	}

	return s.buffer.PopFront(), true
}

// PopBack removes and returns the back element. The boolean is false when the deque was empty at the time the lock
// was acquired.
func (s *ThreadSafeDeque[T]) PopBack() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.buffer.Len() == 0 {
		var empty T
		return empty, false
	}

	return s.buffer.PopBack(), true
}

// PopFrontN removes and returns up to limit elements from the front in a single critical section.
func (s *ThreadSafeDeque[T]) PopFrontN(limit int) []T {
	s.lock.Lock()
	defer s.lock.Unlock()

	numPopped := min(max(limit, 0), s.buffer.Len())
	popped := make([]T, numPopped)

	for idx := range popped {
		popped[idx] = s.buffer.PopFront()
	}

	return popped
}

// MustPopFront is PopFront for callers that have already established the deque is non-empty. It panics with an
// error wrapping ErrEmpty otherwise.
func (s *ThreadSafeDeque[T]) MustPopFront() T {
	if value, ok := s.PopFront(); ok {
		return value
	}

	panic(emptyContainer("MustPopFront"))
}

// MustPopBack is PopBack for callers that have already established the deque is non-empty. It panics with an error
// wrapping ErrEmpty otherwise.
func (s *ThreadSafeDeque[T]) MustPopBack() T {
	if value, ok := s.PopBack(); ok {
		return value
	}

	panic(emptyContainer("MustPopBack"))
}

func (s *ThreadSafeDeque[T]) Front() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.buffer.Len() == 0 {
		var empty T
		return empty, false
	}

	return s.buffer.Front(), true
}

func (s *ThreadSafeDeque[T]) Back() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.buffer.Len() == 0 {
		var empty T
		return empty, false
	}

	return s.buffer.Back(), true
}

func (s *ThreadSafeDeque[T]) At(index int) (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if index < 0 || index >= s.buffer.Len() {
		var empty T
		return empty, false
	}

	return s.buffer.At(index), true
}

func (s *ThreadSafeDeque[T]) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.buffer.Len()
}

func (s *ThreadSafeDeque[T]) Empty() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.buffer.Len() == 0
}

func (s *ThreadSafeDeque[T]) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.buffer.Clear()
}

// Snapshot returns the deque contents, front to back, as of the moment the lock was acquired.
func (s *ThreadSafeDeque[T]) Snapshot() []T {
	s.lock.Lock()
	defer s.lock.Unlock()

	snapshot := make([]T, s.buffer.Len())

	for idx := range snapshot {
		snapshot[idx] = s.buffer.At(idx)
	}

	return snapshot
}

// Process grants the delegate exclusive access to the raw deque. Every other call on this deque blocks until the
// delegate returns. The delegate must not retain the pointer after it returns and must not call back into this
// deque.
func (s *ThreadSafeDeque[T]) Process(delegate func(buffer *deque.Deque[T])) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delegate(&s.buffer)
}
