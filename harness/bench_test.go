package harness_test

import (
	"context"
	"testing"

	"github.com/specterops/guarded/harness"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	for _, workload := range harness.Workloads() {
		t.Run(workload.Name, func(t *testing.T) {
			measurement := harness.Measure(context.Background(), workload, 1000, 4)

			require.Equal(t, workload.Name, measurement.Workload)
			require.Equal(t, 1000, measurement.Ops)
			require.Equal(t, 4, measurement.Workers)
			require.Greater(t, measurement.Elapsed.Nanoseconds(), int64(0))
		})
	}
}

func TestMeasureRounds(t *testing.T) {
	workload := harness.Workloads()[0]

	measurements := harness.MeasureRounds(context.Background(), workload, 100, 0, 3)
	require.Len(t, measurements, 3)

	for _, measurement := range measurements {
		require.Equal(t, 1, measurement.Workers)
		require.Equal(t, 100, measurement.Ops)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Empty(t, harness.MeasureRounds(ctx, workload, 100, 1, 3))
}

func TestMeasurement_PerOp(t *testing.T) {
	require.Zero(t, harness.Measurement{}.PerOp())
	require.Equal(t, int64(10), harness.Measurement{Ops: 10, Elapsed: 100}.PerOp().Nanoseconds())
}
