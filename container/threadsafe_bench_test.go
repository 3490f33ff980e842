package container_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/gammazero/deque"
	"github.com/specterops/guarded/container"
)

var benchmarkSizes = []struct {
	name string
	size int
}{
	{name: "1K", size: 1 << 10},
	{name: "32K", size: 1 << 15},
	{name: "256K", size: 1 << 18},
}

func BenchmarkThreadSafeArray_PushBack(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			for b.Loop() {
				array := container.NewThreadSafeArray[int]()

				for value := 0; value < benchmarkSize.size; value++ {
					array.PushBack(value)
				}
			}
		})
	}
}

func BenchmarkSlice_PushBack(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			for b.Loop() {
				var values []int

				for value := 0; value < benchmarkSize.size; value++ {
					values = append(values, value)
				}
			}
		})
	}
}

func BenchmarkThreadSafeArray_Clear(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			array := container.NewThreadSafeArray[int]()

			for b.Loop() {
				array.Clear()

				for value := 0; value < benchmarkSize.size; value++ {
					array.PushBack(value)
				}
			}
		})
	}
}

func BenchmarkThreadSafeArray_Empty(b *testing.B) {
	array := container.NewThreadSafeArray[int]()

	for b.Loop() {
		array.Empty()
	}
}

func BenchmarkThreadSafeArray_Snapshot(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			array := container.ThreadSafeArrayFromSlice(make([]int, benchmarkSize.size))

			for b.Loop() {
				array.Snapshot()
			}
		})
	}
}

func BenchmarkThreadSafeArray_EraseIf(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			values := make([]int, benchmarkSize.size)

			for idx := range values {
				values[idx] = idx
			}

			for b.Loop() {
				array := container.ThreadSafeArrayFromSlice(slices.Clone(values))
				array.EraseIf(func(value int) bool {
					return value%10 == 0
				})
			}
		})
	}
}

func BenchmarkThreadSafeArray_ParallelPushBack(b *testing.B) {
	array := container.NewThreadSafeArray[int]()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			array.PushBack(1)
		}
	})
}

func BenchmarkThreadSafeDeque_PushBack(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			for b.Loop() {
				dq := container.NewThreadSafeDeque[int]()

				for value := 0; value < benchmarkSize.size; value++ {
					dq.PushBack(value)
				}
			}
		})
	}
}

func BenchmarkDeque_PushBack(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			for b.Loop() {
				var dq deque.Deque[int]

				for value := 0; value < benchmarkSize.size; value++ {
					dq.PushBack(value)
				}
			}
		})
	}
}

func BenchmarkThreadSafeDeque_Clear(b *testing.B) {
	for _, benchmarkSize := range benchmarkSizes {
		b.Run(benchmarkSize.name, func(b *testing.B) {
			dq := container.NewThreadSafeDeque[int]()

			for b.Loop() {
				dq.Clear()

				for value := 0; value < benchmarkSize.size; value++ {
					dq.PushBack(value)
				}
			}
		})
	}
}

func BenchmarkThreadSafeDeque_Empty(b *testing.B) {
	dq := container.NewThreadSafeDeque[int]()

	for b.Loop() {
		dq.Empty()
	}
}

func BenchmarkThreadSafeDeque_PushPopFront(b *testing.B) {
	dq := container.NewThreadSafeDeque[int]()

	for b.Loop() {
		dq.PushBack(1)
		dq.PopFront()
	}
}

func BenchmarkThreadSafeDeque_ProducerConsumer(b *testing.B) {
	for b.Loop() {
		var (
			dq        = container.NewThreadSafeDeque[int]()
			waitGroup = &sync.WaitGroup{}
			numItems  = 1 << 12
		)

		waitGroup.Add(2)

		go func() {
			defer waitGroup.Done()

			for value := 0; value < numItems; value++ {
				dq.PushBack(value)
			}
		}()

		go func() {
			defer waitGroup.Done()

			for numPopped := 0; numPopped < numItems; {
				if _, ok := dq.PopFront(); ok {
					numPopped++
				}
			}
		}()

		waitGroup.Wait()
	}
}

func BenchmarkThreadSafeArray_Swap(b *testing.B) {
	var (
		left  = container.NewThreadSafeArray(1, 2, 3)
		right = container.NewThreadSafeArray(4, 5, 6)
	)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			left.Swap(right)
		}
	})
}
