package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specterops/guarded/harness"
)

var runConfig = harness.DefaultConfig()

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run concurrent correctness scenarios against both containers",
	Long: `Run drives the containers from many goroutines and checks that no value is lost or duplicated,
that snapshots are consistent, and that reverse-order swaps terminate.

With no arguments every scenario runs. Use "tsbench list" to see scenario names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := harness.RunNamed(cmd.Context(), runConfig, args...)

		for _, result := range results {
			status := "passed"
			if result.Err != nil {
				status = "failed"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-7s %s\n", result.Scenario, status, result.Elapsed)
		}

		if err == nil {
			slog.InfoContext(cmd.Context(), "All scenarios passed", slog.Int("count", len(results)))
		}

		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the correctness scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, scenario := range harness.Scenarios() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", scenario.Name, scenario.Description)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runConfig.Producers, "producers", runConfig.Producers, "Number of producer goroutines")
	runCmd.Flags().IntVar(&runConfig.Consumers, "consumers", runConfig.Consumers, "Number of consumer goroutines")
	runCmd.Flags().IntVar(&runConfig.ItemsPerWorker, "items", runConfig.ItemsPerWorker, "Values pushed by each producer")
	runCmd.Flags().IntVar(&runConfig.SwapIterations, "swaps", runConfig.SwapIterations, "Swaps performed by each swapping goroutine")
	runCmd.Flags().IntVar(&runConfig.Parallelism, "parallelism", runConfig.Parallelism, "Scenarios allowed to run at the same time")
	runCmd.Flags().DurationVar(&runConfig.Timeout, "timeout", runConfig.Timeout, "Deadline for each scenario")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}
