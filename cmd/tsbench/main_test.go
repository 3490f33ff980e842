package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var (
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	)

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)

		logLevel = "info"
		logFormat = "text"
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestListCommand(t *testing.T) {
	output, err := execute(t, "list")
	require.NoError(t, err)
	require.Contains(t, output, "deque-order")
	require.Contains(t, output, "reverse-swap")
}

func TestRunCommand(t *testing.T) {
	output, err := execute(t, "run", "--items", "100", "--swaps", "100", "deque-order", "erase-if")
	require.NoError(t, err)
	require.Contains(t, output, "deque-order")
	require.Contains(t, output, "passed")

	_, err = execute(t, "run", "missing-scenario")
	require.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	output, err := execute(t, "bench", "--ops", "256", "--workers", "2", "--rounds", "1", "deque-push-pop")
	require.NoError(t, err)
	require.Contains(t, output, "deque-push-pop")

	_, err = execute(t, "bench", "--ops", "256", "--rounds", "1", "missing-workload")
	require.Error(t, err)
}

func TestLoggingFlags(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "list")
	require.Error(t, err)

	_, err = execute(t, "--log-format", "xml", "list")
	require.Error(t, err)

	_, err = execute(t, "--log-level", "debug", "--log-format", "json", "list")
	require.NoError(t, err)
}
