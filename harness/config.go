package harness

import (
	"fmt"
	"runtime"
	"time"
)

const (
	DefaultItemsPerWorker = 10_000
	DefaultSwapIterations = 10_000
	DefaultTimeout        = time.Minute
)

type Config struct {
	Producers      int           `json:"producers"`
	Consumers      int           `json:"consumers"`
	ItemsPerWorker int           `json:"items_per_worker"`
	SwapIterations int           `json:"swap_iterations"`
	Parallelism    int           `json:"parallelism"`
	Timeout        time.Duration `json:"timeout"`
}

func DefaultConfig() Config {
	return Config{
		Producers:      max(runtime.GOMAXPROCS(0)/2, 2),
		Consumers:      max(runtime.GOMAXPROCS(0)/2, 2),
		ItemsPerWorker: DefaultItemsPerWorker,
		SwapIterations: DefaultSwapIterations,
		Parallelism:    1,
		Timeout:        DefaultTimeout,
	}
}

func (s Config) Validate() error {
	switch {
	case s.Producers < 1:
		return fmt.Errorf("producers must be at least 1: %d", s.Producers)

	case s.Consumers < 1:
		return fmt.Errorf("consumers must be at least 1: %d", s.Consumers)

	case s.ItemsPerWorker < 1:
		return fmt.Errorf("items per worker must be at least 1: %d", s.ItemsPerWorker)

	case s.SwapIterations < 0:
		return fmt.Errorf("swap iterations must not be negative: %d", s.SwapIterations)

	case s.Parallelism < 1:
		return fmt.Errorf("parallelism must be at least 1: %d", s.Parallelism)

	case s.Timeout <= 0:
		return fmt.Errorf("timeout must be positive: %s", s.Timeout)
	}

	return nil
}

func (s Config) TotalItems() uint64 {
	return uint64(s.Producers) * uint64(s.ItemsPerWorker)
}
