package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/specterops/guarded/container"
	"github.com/specterops/guarded/ledger"
	"github.com/specterops/guarded/util"
	"github.com/specterops/guarded/util/atomics"
)

var (
	ErrNotEmpty        = errors.New("container not empty after every value was drained")
	ErrSizeMismatch    = errors.New("container size does not match recorded history")
	ErrSnapshotGap     = errors.New("snapshot is not a prefix of the pushed sequence")
	ErrPredicateMatch  = errors.New("element matching the erase predicate survived")
	ErrSwapNotRestored = errors.New("an even number of swaps did not restore original contents")
	ErrUnexpectedOrder = errors.New("unexpected element order")
)

type ScenarioFunc func(ctx context.Context, cfg Config) error

type Scenario struct {
	Name        string
	Description string
	Run         ScenarioFunc
}

func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "deque-order",
			Description: "push and pop at both ends of a deque in a fixed order",
			Run:         DequeOrder,
		},
		{
			Name:        "deque-conservation",
			Description: "producers and consumers at both ends of a deque never lose or duplicate a value",
			Run:         DequeConservation,
		},
		{
			Name:        "array-conservation",
			Description: "producers append to an array while consumers pop from its tail",
			Run:         ArrayConservation,
		},
		{
			Name:        "snapshot-prefix",
			Description: "snapshots taken during a sequential push are always prefixes of the sequence",
			Run:         SnapshotPrefix,
		},
		{
			Name:        "erase-if",
			Description: "predicate removal racing an appender leaves no matching element",
			Run:         EraseIfRace,
		},
		{
			Name:        "reverse-swap",
			Description: "concurrent reverse-order swaps terminate and compose to the identity",
			Run:         ReverseSwap,
		},
	}
}

func Lookup(name string) (Scenario, bool) {
	for _, scenario := range Scenarios() {
		if scenario.Name == name {
			return scenario, true
		}
	}

	return Scenario{}, false
}

func runWorkers(numWorkers int, worker func(workerID int)) {
	waitGroup := &sync.WaitGroup{}

	for workerID := 0; workerID < numWorkers; workerID++ {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()
			worker(workerID)
		}()
	}

	waitGroup.Wait()
}

func DequeOrder(_ context.Context, _ Config) error {
	dq := container.NewThreadSafeDeque[string]()
	dq.PushBack("A")
	dq.PushBack("B")
	dq.PushFront("C")

	var popped []string

	for _, pop := range []func() (string, bool){dq.PopFront, dq.PopFront, dq.PopBack} {
		if value, ok := pop(); ok {
			popped = append(popped, value)
		}
	}

	if expected := []string{"C", "A", "B"}; !slices.Equal(expected, popped) {
		return fmt.Errorf("%w: expected %v but popped %v", ErrUnexpectedOrder, expected, popped)
	}

	if !dq.Empty() {
		return fmt.Errorf("%w: %d elements remain", ErrNotEmpty, dq.Len())
	}

	return nil
}

func DequeConservation(ctx context.Context, cfg Config) error {
	var (
		dq           = container.NewThreadSafeDeque[uint64]()
		conservation = ledger.New()
		claimTicket  = atomics.NewCounter(cfg.TotalItems())
		numDrained   = &atomic.Uint64{}
		producerDone = &sync.WaitGroup{}
	)

	producerDone.Add(1)

	go func() {
		defer producerDone.Done()

		runWorkers(cfg.Producers, func(workerID int) {
			for ticket, claimed := claimTicket(); claimed; ticket, claimed = claimTicket() {
				if workerID%2 == 0 {
					dq.PushBack(ticket)
				} else {
					dq.PushFront(ticket)
				}

				conservation.Pushed(ticket)
			}
		})
	}()

	runWorkers(cfg.Consumers, func(workerID int) {
		for numDrained.Load() < cfg.TotalItems() && ctx.Err() == nil {
			var (
				value uint64
				ok    bool
			)

			if workerID%2 == 0 {
				value, ok = dq.PopFront()
			} else {
				value, ok = dq.PopBack()
			}

			if ok {
				conservation.Drained(value)
				numDrained.Add(1)
			}
		}
	})

	producerDone.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	held := dq.Snapshot()

	if err := conservation.Verify(held); err != nil {
		return err
	}

	if len(held) != 0 {
		return fmt.Errorf("%w: %d elements remain", ErrNotEmpty, len(held))
	}

	return nil
}

func ArrayConservation(ctx context.Context, cfg Config) error {
	var (
		array        = container.NewThreadSafeArrayWithCapacity[uint64](int(cfg.TotalItems()))
		conservation = ledger.New()
		claimTicket  = atomics.NewCounter(cfg.TotalItems())
		claimDrain   = atomics.NewCounter(cfg.TotalItems() / 2)
	)

	// Producers and consumers run together; consumers spin on an empty array until their drain ticket is served.
	runWorkers(cfg.Producers+cfg.Consumers, func(workerID int) {
		if workerID < cfg.Producers {
			for ticket, claimed := claimTicket(); claimed; ticket, claimed = claimTicket() {
				array.PushBack(ticket)
				conservation.Pushed(ticket)
			}

			return
		}

		for _, claimed := claimDrain(); claimed; _, claimed = claimDrain() {
			for ctx.Err() == nil {
				if value, ok := array.PopBack(); ok {
					conservation.Drained(value)
					break
				}
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	held := array.Snapshot()

	if err := conservation.Verify(held); err != nil {
		return err
	}

	if expectedLen := conservation.NumPushed() - conservation.NumDrained(); uint64(array.Len()) != expectedLen {
		return fmt.Errorf("%w: expected %d elements but found %d", ErrSizeMismatch, expectedLen, array.Len())
	}

	return nil
}

func checkPrefix(snapshot, preexisting []uint64) error {
	if len(snapshot) < len(preexisting) || !slices.Equal(snapshot[:len(preexisting)], preexisting) {
		return fmt.Errorf("%w: preexisting contents changed", ErrSnapshotGap)
	}

	for idx, value := range snapshot[len(preexisting):] {
		if value != uint64(idx) {
			return fmt.Errorf("%w: expected %d at offset %d but found %d", ErrSnapshotGap, idx, idx, value)
		}
	}

	return nil
}

func SnapshotPrefix(ctx context.Context, cfg Config) error {
	var (
		numItems     = cfg.TotalItems()
		preexisting  = []uint64{numItems, numItems + 1, numItems + 2}
		array        = container.NewThreadSafeArray(preexisting...)
		conservation = ledger.New()
		violations   = util.NewErrorCollector()
		done         = &atomic.Bool{}
	)

	runWorkers(cfg.Consumers+1, func(workerID int) {
		if workerID == 0 {
			defer done.Store(true)

			for value := uint64(0); value < numItems && ctx.Err() == nil; value++ {
				array.PushBack(value)
			}

			return
		}

		previousLen := len(preexisting)

		for !done.Load() {
			snapshot := array.Snapshot()

			if err := checkPrefix(snapshot, preexisting); err != nil {
				violations.Add(err)
				return
			}

			if len(snapshot) < previousLen {
				violations.Add(fmt.Errorf("%w: snapshot shrank from %d to %d elements", ErrSnapshotGap, previousLen, len(snapshot)))
				return
			}

			conservation.Observed(snapshot[previousLen:]...)
			previousLen = len(snapshot)
		}
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	slog.DebugContext(ctx, "snapshot prefix readers finished", slog.Uint64("observed_estimate", conservation.EstimatedObserved()))

	if err := checkPrefix(array.Snapshot(), preexisting); err != nil {
		violations.Add(err)
	}

	return violations.Combined()
}

func EraseIfRace(ctx context.Context, cfg Config) error {
	const initialItems = 1000

	var (
		array          = container.NewThreadSafeArray[uint64]()
		lastValue      = initialItems + cfg.TotalItems()
		done           = &atomic.Bool{}
		isMultipleOf10 = func(value uint64) bool {
			return value%10 == 0
		}
	)

	for value := uint64(0); value < initialItems; value++ {
		array.PushBack(value)
	}

	runWorkers(2, func(workerID int) {
		if workerID == 0 {
			defer done.Store(true)

			for value := uint64(initialItems); value < lastValue && ctx.Err() == nil; value++ {
				array.PushBack(value)
			}

			return
		}

		for !done.Load() {
			array.EraseIf(isMultipleOf10)
		}
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	// A final pass covers values appended after the eraser's last pass
	snapshot := array.EraseIfSnapshot(isMultipleOf10)

	for _, value := range snapshot {
		if isMultipleOf10(value) {
			return fmt.Errorf("%w: %d", ErrPredicateMatch, value)
		}
	}

	expectedLen := lastValue - (lastValue+9)/10
	if uint64(len(snapshot)) != expectedLen {
		return fmt.Errorf("%w: expected %d survivors but found %d", ErrSizeMismatch, expectedLen, len(snapshot))
	}

	if !slices.IsSorted(snapshot) {
		return fmt.Errorf("%w: survivors lost their relative order", ErrUnexpectedOrder)
	}

	return nil
}

func swapConcurrently(iterations int, forward, reverse func()) {
	runWorkers(2, func(workerID int) {
		swap := forward
		if workerID == 1 {
			swap = reverse
		}

		for iteration := 0; iteration < iterations; iteration++ {
			swap()
		}
	})
}

func ReverseSwap(_ context.Context, cfg Config) error {
	var (
		leftValues  = []uint64{1, 2, 3}
		rightValues = []uint64{4, 5}
		leftArray   = container.NewThreadSafeArray(leftValues...)
		rightArray  = container.NewThreadSafeArray(rightValues...)
		leftDeque   = container.NewThreadSafeDeque(leftValues...)
		rightDeque  = container.NewThreadSafeDeque(rightValues...)
		violations  = util.NewErrorCollector()
	)

	swapConcurrently(cfg.SwapIterations, func() {
		leftArray.Swap(rightArray)
	}, func() {
		rightArray.Swap(leftArray)
	})

	swapConcurrently(cfg.SwapIterations, func() {
		leftDeque.Swap(rightDeque)
	}, func() {
		rightDeque.Swap(leftDeque)
	})

	if !slices.Equal(leftValues, leftArray.Snapshot()) || !slices.Equal(rightValues, rightArray.Snapshot()) {
		violations.Add(fmt.Errorf("%w: arrays hold %v and %v", ErrSwapNotRestored, leftArray.Snapshot(), rightArray.Snapshot()))
	}

	if !slices.Equal(leftValues, leftDeque.Snapshot()) || !slices.Equal(rightValues, rightDeque.Snapshot()) {
		violations.Add(fmt.Errorf("%w: deques hold %v and %v", ErrSwapNotRestored, leftDeque.Snapshot(), rightDeque.Snapshot()))
	}

	return violations.Combined()
}
