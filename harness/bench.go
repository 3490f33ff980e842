package harness

import (
	"context"
	"log/slog"
	"time"

	"github.com/specterops/guarded/container"
	"github.com/specterops/guarded/util"
)

// Workload is a timed unit of work for the measurement harness. Prepare builds the container state outside of the
// measurement; the returned function performs ops operations split across workers and is the only part timed.
type Workload struct {
	Name    string
	Prepare func(ops int) func(workerID, workerOps int)
}

func Workloads() []Workload {
	return []Workload{
		{
			Name: "array-push-back",
			Prepare: func(ops int) func(int, int) {
				array := container.NewThreadSafeArray[int]()

				return func(workerID, workerOps int) {
					for idx := 0; idx < workerOps; idx++ {
						array.PushBack(idx)
					}
				}
			},
		},
		{
			Name: "array-snapshot",
			Prepare: func(ops int) func(int, int) {
				array := container.ThreadSafeArrayFromSlice(make([]int, 1024))

				return func(workerID, workerOps int) {
					for idx := 0; idx < workerOps; idx++ {
						array.Snapshot()
					}
				}
			},
		},
		{
			Name: "array-erase-if",
			Prepare: func(ops int) func(int, int) {
				array := container.NewThreadSafeArrayWithCapacity[int](ops)

				return func(workerID, workerOps int) {
					for idx := 0; idx < workerOps; idx++ {
						array.PushBack(idx)

						if idx%64 == 0 {
							array.EraseIf(func(value int) bool {
								return value%10 == 0
							})
						}
					}
				}
			},
		},
		{
			Name: "array-swap",
			Prepare: func(ops int) func(int, int) {
				var (
					left  = container.NewThreadSafeArray(1, 2, 3)
					right = container.NewThreadSafeArray(4, 5, 6)
				)

				return func(workerID, workerOps int) {
					for idx := 0; idx < workerOps; idx++ {
						if workerID%2 == 0 {
							left.Swap(right)
						} else {
							right.Swap(left)
						}
					}
				}
			},
		},
		{
			Name: "deque-push-pop",
			Prepare: func(ops int) func(int, int) {
				dq := container.NewThreadSafeDeque[int]()

				return func(workerID, workerOps int) {
					for idx := 0; idx < workerOps; idx++ {
						if workerID%2 == 0 {
							dq.PushBack(idx)
							dq.PopFront()
						} else {
							dq.PushFront(idx)
							dq.PopBack()
						}
					}
				}
			},
		},
		{
			Name: "deque-empty",
			Prepare: func(ops int) func(int, int) {
				dq := container.NewThreadSafeDeque[int]()

				return func(workerID, workerOps int) {
					for idx := 0; idx < workerOps; idx++ {
						dq.Empty()
					}
				}
			},
		},
	}
}

type Measurement struct {
	Workload string
	Ops      int
	Workers  int
	Elapsed  time.Duration
}

func (s Measurement) PerOp() time.Duration {
	if s.Ops == 0 {
		return 0
	}

	return s.Elapsed / time.Duration(s.Ops)
}

// Measure runs the workload once with ops operations divided evenly across workers and logs the timing.
func Measure(ctx context.Context, workload Workload, ops, workers int) Measurement {
	var (
		numWorkers = max(workers, 1)
		workerOps  = max(ops/numWorkers, 1)
		execute    = workload.Prepare(workerOps * numWorkers)
		measure    = util.SLogMeasureFunction(ctx, "harness.Measure",
			slog.String("workload", workload.Name),
			slog.Int("workers", numWorkers),
			slog.Int("ops", workerOps*numWorkers),
		)
	)

	runWorkers(numWorkers, func(workerID int) {
		execute(workerID, workerOps)
	})

	return Measurement{
		Workload: workload.Name,
		Ops:      workerOps * numWorkers,
		Workers:  numWorkers,
		Elapsed:  measure(),
	}
}

// MeasureRounds repeats Measure for the given number of rounds, logging a running average after each round.
func MeasureRounds(ctx context.Context, workload Workload, ops, workers, rounds int) []Measurement {
	var (
		measurements = make([]Measurement, 0, rounds)
		sample       = util.SLogSampleRepeated(ctx, "harness.MeasureRounds", slog.String("workload", workload.Name))
	)

	for round := 0; round < rounds && ctx.Err() == nil; round++ {
		measurement := Measure(ctx, workload, ops, workers)
		measurements = append(measurements, measurement)

		sample(slog.Int("round", round), slog.Duration("per_op", measurement.PerOp()))
	}

	return measurements
}
