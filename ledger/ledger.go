// Package ledger verifies element conservation for containers driven by many goroutines. Producers record every
// value they push, consumers record every value they drain, and Verify checks the recorded history against the values
// still held by the container: every pushed value must be accounted for exactly once.
package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/axiomhq/hyperloglog"
	"github.com/specterops/guarded/util"
)

const maxReportedValues = 8

var (
	ErrDuplicatePush  = errors.New("value pushed more than once")
	ErrDuplicateDrain = errors.New("value drained more than once")
	ErrDuplicateHeld  = errors.New("value held more than once")
	ErrDrainedAndHeld = errors.New("value both drained and still held")
	ErrUnknownValue   = errors.New("value was never pushed")
	ErrLostValue      = errors.New("pushed value was neither drained nor held")
)

type Ledger struct {
	lock       *sync.Mutex
	pushed     *roaring64.Bitmap
	drained    *roaring64.Bitmap
	observed   *hyperloglog.Sketch
	valueBytes []byte
	violations util.ErrorCollector
}

func New() *Ledger {
	return &Ledger{
		lock:       &sync.Mutex{},
		pushed:     roaring64.New(),
		drained:    roaring64.New(),
		observed:   hyperloglog.NewNoSparse(),
		valueBytes: make([]byte, 8),
		violations: util.NewErrorCollector(),
	}
}

// Pushed records values that a producer has handed to the container.
func (s *Ledger) Pushed(values ...uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, value := range values {
		if !s.pushed.CheckedAdd(value) {
			s.violations.Add(fmt.Errorf("%w: %d", ErrDuplicatePush, value))
		}
	}
}

// Drained records values that a consumer has removed from the container.
func (s *Ledger) Drained(values ...uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, value := range values {
		if !s.drained.CheckedAdd(value) {
			s.violations.Add(fmt.Errorf("%w: %d", ErrDuplicateDrain, value))
		}
	}
}

// Observed records values seen in a snapshot. Snapshots repeat values, so only an approximate distinct count is
// kept.
func (s *Ledger) Observed(values ...uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, value := range values {
		binary.LittleEndian.PutUint64(s.valueBytes, value)
		s.observed.Insert(s.valueBytes)
	}
}

func (s *Ledger) NumPushed() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.pushed.GetCardinality()
}

func (s *Ledger) NumDrained() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.drained.GetCardinality()
}

// EstimatedObserved returns the approximate number of distinct values passed to Observed.
func (s *Ledger) EstimatedObserved() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.observed.Estimate()
}

func sampleValues(bitmap *roaring64.Bitmap) []uint64 {
	var (
		sample   = make([]uint64, 0, maxReportedValues)
		iterator = bitmap.Iterator()
	)

	for iterator.HasNext() && len(sample) < maxReportedValues {
		sample = append(sample, iterator.Next())
	}

	return sample
}

func violation(sentinel error, bitmap *roaring64.Bitmap) error {
	return fmt.Errorf("%w: %d values including %v", sentinel, bitmap.GetCardinality(), sampleValues(bitmap))
}

// Verify checks the recorded history against the values still held by the container. It must only be called once
// every producer and consumer has finished recording. The returned error joins every violation found, including
// duplicates recorded while the workload ran.
func (s *Ledger) Verify(held []uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var (
		errs      = []error{s.violations.Combined()}
		heldSet   = roaring64.New()
		duplicate = roaring64.New()
	)

	for _, value := range held {
		if !heldSet.CheckedAdd(value) {
			duplicate.Add(value)
		}
	}

	if !duplicate.IsEmpty() {
		errs = append(errs, violation(ErrDuplicateHeld, duplicate))
	}

	if both := roaring64.And(heldSet, s.drained); !both.IsEmpty() {
		errs = append(errs, violation(ErrDrainedAndHeld, both))
	}

	accounted := roaring64.Or(heldSet, s.drained)

	if unknown := roaring64.AndNot(accounted, s.pushed); !unknown.IsEmpty() {
		errs = append(errs, violation(ErrUnknownValue, unknown))
	}

	if lost := roaring64.AndNot(s.pushed, accounted); !lost.IsEmpty() {
		errs = append(errs, violation(ErrLostValue, lost))
	}

	return errors.Join(errs...)
}
