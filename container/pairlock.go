package container

import (
	"runtime"
	"sync"
)

// lockPair acquires both mutexes as a single step. It blocks on one mutex and only tries the other; when the try
// fails the held mutex is released before blocking on the contended one. No goroutine ever waits on a mutex while
// holding the other, so two goroutines locking the same pair in opposite order cannot deadlock.
//
// Callers must not pass the same mutex twice.
func lockPair(first, second *sync.Mutex) {
	for {
		first.Lock()

		if second.TryLock() {
			return
		}

		first.Unlock()
		runtime.Gosched()

		// Start from the contended mutex so the next attempt blocks where the conflict was.
		first, second = second, first
	}
}

func unlockPair(first, second *sync.Mutex) {
	second.Unlock()
	first.Unlock()
}
