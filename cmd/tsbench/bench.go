package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/specterops/guarded/harness"
)

var (
	benchOps     int
	benchWorkers int
	benchRounds  int
)

var benchCmd = &cobra.Command{
	Use:   "bench [workload...]",
	Short: "Time container operations from many goroutines",
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchOps < 1 || benchRounds < 1 {
			return fmt.Errorf("ops and rounds must be at least 1")
		}

		workloads := harness.Workloads()

		if len(args) > 0 {
			workloads = slices.DeleteFunc(workloads, func(workload harness.Workload) bool {
				return !slices.Contains(args, workload.Name)
			})

			if len(workloads) != len(args) {
				return fmt.Errorf("unknown workload in %v", args)
			}
		}

		for _, workload := range workloads {
			measurements := harness.MeasureRounds(cmd.Context(), workload, benchOps, benchWorkers, benchRounds)

			if len(measurements) == 0 {
				return cmd.Context().Err()
			}

			var total time.Duration
			for _, measurement := range measurements {
				total += measurement.PerOp()
			}

			average := total / time.Duration(len(measurements))

			slog.DebugContext(cmd.Context(), "Workload finished", slog.String("workload", workload.Name), slog.Duration("avg_per_op", average))
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %8d ops %3d workers %12s/op\n", workload.Name, measurements[0].Ops, measurements[0].Workers, average)
		}

		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchOps, "ops", 1<<16, "Operations per round, split across workers")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", runtime.GOMAXPROCS(0), "Number of goroutines issuing operations")
	benchCmd.Flags().IntVar(&benchRounds, "rounds", 3, "Rounds per workload")

	rootCmd.AddCommand(benchCmd)
}
