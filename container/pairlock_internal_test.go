package container

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockPair_Cycle(t *testing.T) {
	var (
		mutexes   = []*sync.Mutex{{}, {}, {}}
		counters  = make([]int, len(mutexes))
		waitGroup = &sync.WaitGroup{}
	)

	// Each worker locks a different neighboring pair so the acquisition order forms a cycle
	for workerID := range mutexes {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			var (
				firstIdx  = workerID
				secondIdx = (workerID + 1) % len(mutexes)
			)

			for iteration := 0; iteration < 5000; iteration++ {
				lockPair(mutexes[firstIdx], mutexes[secondIdx])
				counters[firstIdx]++
				counters[secondIdx]++
				unlockPair(mutexes[firstIdx], mutexes[secondIdx])
			}
		}()
	}

	waitGroup.Wait()

	for _, count := range counters {
		require.Equal(t, 10000, count)
	}
}

func TestLockPair_HoldsBoth(t *testing.T) {
	var first, second sync.Mutex

	lockPair(&first, &second)

	require.False(t, first.TryLock())
	require.False(t, second.TryLock())

	unlockPair(&first, &second)

	require.True(t, first.TryLock())
	require.True(t, second.TryLock())
}
