package container

import (
	"iter"
	"slices"
	"sync"
)

// ThreadSafeArray is a growable, indexable sequence guarded by a single exclusive lock. Every method holds the lock
// for its full duration which makes each call linearizable against every other call on the same instance. The zero
// value is an empty array ready for use.
type ThreadSafeArray[T any] struct {
	lock   sync.Mutex
	buffer []T
}

func NewThreadSafeArray[T any](values ...T) *ThreadSafeArray[T] {
	return &ThreadSafeArray[T]{
		buffer: slices.Clone(values),
	}
}

func NewThreadSafeArrayWithCapacity[T any](capacity int) *ThreadSafeArray[T] {
	return &ThreadSafeArray[T]{
		buffer: make([]T, 0, capacity),
	}
}

// ThreadSafeArrayFromSlice takes ownership of the given slice. The caller must not use the slice afterward.
func ThreadSafeArrayFromSlice[T any](values []T) *ThreadSafeArray[T] {
	return &ThreadSafeArray[T]{
		buffer: values,
	}
}

// CloneThreadSafeArray returns a new array holding a copy of the other array's contents.
func CloneThreadSafeArray[T any](other *ThreadSafeArray[T]) *ThreadSafeArray[T] {
	clone := &ThreadSafeArray[T]{}
	clone.CopyFrom(other)

	return clone
}

// CopyFrom replaces the contents of this array with a copy of the other array's contents. Both locks are held for
// the transfer.
func (s *ThreadSafeArray[T]) CopyFrom(other *ThreadSafeArray[T]) {
	if s == other {
		return
	}

	lockPair(&s.lock, &other.lock)
	defer unlockPair(&s.lock, &other.lock)

	s.buffer = slices.Clone(other.buffer)
}

// MoveFrom transfers the other array's buffer into this array, leaving the other array empty. Both locks are held
// for the transfer.
func (s *ThreadSafeArray[T]) MoveFrom(other *ThreadSafeArray[T]) {
	if s == other {
		return
	}

	lockPair(&s.lock, &other.lock)
	defer unlockPair(&s.lock, &other.lock)

	s.buffer = other.buffer
	other.buffer = nil
}

// Assign replaces the contents of this array with a copy of the given values.
func (s *ThreadSafeArray[T]) Assign(values []T) {
	cloned := slices.Clone(values)

	s.lock.Lock()
	defer s.lock.Unlock()

	s.buffer = cloned
}

func (s *ThreadSafeArray[T]) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	clear(s.buffer)
	s.buffer = s.buffer[:0]
}

func (s *ThreadSafeArray[T]) Empty() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.buffer) == 0
}

func (s *ThreadSafeArray[T]) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.buffer)
}

func (s *ThreadSafeArray[T]) Cap() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return cap(s.buffer)
}

func (s *ThreadSafeArray[T]) At(index int) (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if index < 0 || index >= len(s.buffer) {
		var empty T
		return empty, false
	}

	return s.buffer[index], true
}

// Set overwrites the element at the given index. Returns false if the index is outside the array.
func (s *ThreadSafeArray[T]) Set(index int, value T) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if index < 0 || index >= len(s.buffer) {
		return false
	}

	s.buffer[index] = value
	return true
}

func (s *ThreadSafeArray[T]) Front() (T, bool) {
	return s.At(0)
}

func (s *ThreadSafeArray[T]) Back() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.buffer) == 0 {
		var empty T
		return empty, false
	}

	return s.buffer[len(s.buffer)-1], true
}

func (s *ThreadSafeArray[T]) PushBack(values ...T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.buffer = append(s.buffer, values...)
}

// EmplaceBack appends the value produced by construct. The constructor runs while the lock is held and must not call
// back into this array.
func (s *ThreadSafeArray[T]) EmplaceBack(construct func() T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.buffer = append(s.buffer, construct())
}

// PopBack removes and returns the last element. The boolean is false when the array was empty at the time the lock
// was acquired.
func (s *ThreadSafeArray[T]) PopBack() (T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.popBack()
}

// MustPopBack is PopBack for callers that have already established the array is non-empty. It panics with an error
// wrapping ErrEmpty otherwise.
func (s *ThreadSafeArray[T]) MustPopBack() T {
	s.lock.Lock()
	defer s.lock.Unlock()

	if value, ok := s.popBack(); ok {
		return value
	}

	panic(emptyContainer("MustPopBack"))
}

func (s *ThreadSafeArray[T]) popBack() (T, bool) {
	var empty T

	if len(s.buffer) == 0 {
		return empty, false
	}

	lastIdx := len(s.buffer) - 1
	value := s.buffer[lastIdx]

	s.buffer[lastIdx] = empty
	s.buffer = s.buffer[:lastIdx]

	return value, true
}

func (s *ThreadSafeArray[T]) checkInsertPosition(operation string, position int) {
	if position < 0 || position > len(s.buffer) {
		panic(outOfRange(operation, position, len(s.buffer)))
	}
}

func (s *ThreadSafeArray[T]) checkElementPosition(operation string, position int) {
	if position < 0 || position >= len(s.buffer) {
		panic(outOfRange(operation, position, len(s.buffer)))
	}
}

// Insert places the given values before the element at position. A position equal to the array length appends.
// The position is validated when the lock is held; an invalid position panics with an error wrapping ErrOutOfRange.
func (s *ThreadSafeArray[T]) Insert(position int, values ...T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.checkInsertPosition("Insert", position)
	s.buffer = slices.Insert(s.buffer, position, values...)
}

// InsertN places count copies of value before the element at position.
func (s *ThreadSafeArray[T]) InsertN(position, count int, value T) {
	if count < 0 {
		panic(outOfRange("InsertN count", count, 0))
	}

	values := make([]T, count)

	for idx := range values {
		values[idx] = value
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.checkInsertPosition("InsertN", position)
	s.buffer = slices.Insert(s.buffer, position, values...)
}

// InsertSeq places every value yielded by the given sequence before the element at position. The sequence is
// drained before the lock is acquired so it may safely read from this array.
func (s *ThreadSafeArray[T]) InsertSeq(position int, values iter.Seq[T]) {
	collected := slices.Collect(values)

	s.lock.Lock()
	defer s.lock.Unlock()

	s.checkInsertPosition("InsertSeq", position)
	s.buffer = slices.Insert(s.buffer, position, collected...)
}

// Emplace places the value produced by construct before the element at position. The constructor runs while the
// lock is held and must not call back into this array.
func (s *ThreadSafeArray[T]) Emplace(position int, construct func() T) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.checkInsertPosition("Emplace", position)
	s.buffer = slices.Insert(s.buffer, position, construct())
}

// Erase removes and returns the element at position.
func (s *ThreadSafeArray[T]) Erase(position int) T {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.checkElementPosition("Erase", position)

	value := s.buffer[position]
	s.buffer = slices.Delete(s.buffer, position, position+1)

	return value
}

// EraseRange removes the elements in the half-open range [first, last).
func (s *ThreadSafeArray[T]) EraseRange(first, last int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if first < 0 || first > last {
		panic(outOfRange("EraseRange", first, len(s.buffer)))
	}

	if last > len(s.buffer) {
		panic(outOfRange("EraseRange", last, len(s.buffer)))
	}

	s.buffer = slices.Delete(s.buffer, first, last)
}

// Resize grows the array with zero values or shrinks it so that it holds exactly size elements.
func (s *ThreadSafeArray[T]) Resize(size int) {
	var zero T
	s.ResizeWith(size, zero)
}

// ResizeWith grows the array with copies of fill or shrinks it so that it holds exactly size elements.
func (s *ThreadSafeArray[T]) ResizeWith(size int, fill T) {
	if size < 0 {
		panic(outOfRange("Resize", size, 0))
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if currentLen := len(s.buffer); size <= currentLen {
		clear(s.buffer[size:])
		s.buffer = s.buffer[:size]
	} else {
		s.buffer = slices.Grow(s.buffer, size-currentLen)

		for len(s.buffer) < size {
			s.buffer = append(s.buffer, fill)
		}
	}
}

// EraseIf removes every element for which the predicate returns true in a single pass under the lock and returns
// the number of elements removed. Survivors keep their relative order. The predicate must not call back into this
// array.
func (s *ThreadSafeArray[T]) EraseIf(predicate func(value T) bool) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.eraseIf(predicate)
}

// EraseIfSnapshot behaves like EraseIf and additionally returns a copy of the remaining elements taken under the same
// lock acquisition.
func (s *ThreadSafeArray[T]) EraseIfSnapshot(predicate func(value T) bool) []T {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.eraseIf(predicate)
	return slices.Clone(s.buffer)
}

func (s *ThreadSafeArray[T]) eraseIf(predicate func(value T) bool) int {
	previousLen := len(s.buffer)
	s.buffer = slices.DeleteFunc(s.buffer, predicate)

	return previousLen - len(s.buffer)
}

// Swap exchanges the contents of this array with the other array. Swapping an array with itself does nothing.
func (s *ThreadSafeArray[T]) Swap(other *ThreadSafeArray[T]) {
	if s == other {
		return
	}

	lockPair(&s.lock, &other.lock)
	defer unlockPair(&s.lock, &other.lock)

	s.buffer, other.buffer = other.buffer, s.buffer
}

// SwapSlice installs values as this array's buffer and returns the previous buffer. Only this array's lock is taken.
// Ownership of values passes to the array and ownership of the returned slice passes to the caller.
func (s *ThreadSafeArray[T]) SwapSlice(values []T) []T {
	s.lock.Lock()
	defer s.lock.Unlock()

	previous := s.buffer
	s.buffer = values

	return previous
}

// Snapshot returns a copy of the array contents as of the moment the lock was acquired. The returned slice shares no
// memory with the array.
func (s *ThreadSafeArray[T]) Snapshot() []T {
	s.lock.Lock()
	defer s.lock.Unlock()

	return slices.Clone(s.buffer)
}

// All returns an iterator over a snapshot of the array.
func (s *ThreadSafeArray[T]) All() iter.Seq2[int, T] {
	return slices.All(s.Snapshot())
}

// Process grants the delegate exclusive access to the raw buffer for compound operations that the fixed method set
// cannot express. Every other call on this array blocks until the delegate returns.
//
// The delegate may reslice or reassign the buffer through the pointer. It must not retain the pointer, the slice, or
// any subslice after it returns and must not call back into this array.
func (s *ThreadSafeArray[T]) Process(delegate func(buffer *[]T)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delegate(&s.buffer)
}
