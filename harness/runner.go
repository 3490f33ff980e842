package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/specterops/guarded/util"
	"github.com/specterops/guarded/util/channels"
)

var (
	ErrScenarioTimeout = errors.New("scenario did not finish before its deadline")
	ErrScenarioPanic   = errors.New("scenario panicked")
)

type Result struct {
	Scenario string
	Elapsed  time.Duration
	Err      error
}

// runScenario runs a single scenario under the configured timeout. A scenario that never returns, for example one
// stuck in a lock-order deadlock, is reported as timed out; its goroutines are abandoned.
func runScenario(ctx context.Context, cfg Config, scenario Scenario) error {
	scenarioCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	resultC := make(chan error, 1)

	go func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				resultC <- fmt.Errorf("%w: %v", ErrScenarioPanic, recovered)
			}
		}()

		resultC <- scenario.Run(scenarioCtx, cfg)
	}()

	if err, received := channels.Receive(scenarioCtx, resultC); received {
		return err
	}

	return fmt.Errorf("%w: %s after %s", ErrScenarioTimeout, scenario.Name, cfg.Timeout)
}

// Run executes the given scenarios, at most cfg.Parallelism at a time, and returns one result per scenario in the
// order given. The returned error joins every scenario failure.
func Run(ctx context.Context, cfg Config, scenarios ...Scenario) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		results   = make([]Result, len(scenarios))
		failures  = util.NewErrorCollector()
		limiter   = channels.NewConcurrencyLimiter(cfg.Parallelism)
		waitGroup = &sync.WaitGroup{}
	)

	for idx, scenario := range scenarios {
		results[idx].Scenario = scenario.Name

		if !limiter.Acquire(ctx) {
			results[idx].Err = ctx.Err()
			failures.Add(fmt.Errorf("scenario %s: %w", scenario.Name, ctx.Err()))
			continue
		}

		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()
			defer limiter.Release()

			measure := util.SLogMeasureFunction(ctx, "harness.Run", slog.String("scenario", scenario.Name))
			err := runScenario(ctx, cfg, scenario)

			if err != nil {
				util.SLogError(ctx, "scenario failed", err, slog.String("scenario", scenario.Name))
				failures.Add(fmt.Errorf("scenario %s: %w", scenario.Name, err))
			}

			results[idx].Err = err
			results[idx].Elapsed = measure(slog.Bool("passed", err == nil))
		}()
	}

	waitGroup.Wait()
	return results, failures.Combined()
}

// RunNamed resolves scenario names and runs them. An empty name list runs every scenario.
func RunNamed(ctx context.Context, cfg Config, names ...string) ([]Result, error) {
	if len(names) == 0 {
		return Run(ctx, cfg, Scenarios()...)
	}

	scenarios := make([]Scenario, 0, len(names))

	for _, name := range names {
		if scenario, found := Lookup(name); !found {
			return nil, fmt.Errorf("unknown scenario: %s", name)
		} else {
			scenarios = append(scenarios, scenario)
		}
	}

	return Run(ctx, cfg, scenarios...)
}
