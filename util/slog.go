package util

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

var slogMeasureID = &atomic.Int64{}

// SLogSampleRepeated returns a function that logs the elapsed time since its previous call along with a running
// average. It is meant for loops that repeat the same unit of work.
func SLogSampleRepeated(ctx context.Context, functionName string, args ...any) func(args ...any) {
	var (
		measurementID = 1
		then          = time.Now()
		last          = then
	)

	return func(sampleArgs ...any) {
		var (
			now        = time.Now()
			timingArgs = []any{
				slog.String("fn", functionName),
				slog.Int("sample_id", measurementID),
				slog.Duration("elapsed", now.Sub(last)),
				slog.Duration("avg_elapsed", now.Sub(then)/time.Duration(measurementID)),
				slog.Duration("total_elapsed", now.Sub(then)),
			}
		)

		allArgs := append(append(append([]any{}, args...), sampleArgs...), timingArgs...)
		slog.InfoContext(ctx, "SLogSampleRepeated", allArgs...)

		last = now
		measurementID += 1
	}
}

// SLogMeasureFunction logs an enter record immediately and returns a function that logs the matching exit record with
// the elapsed time. The returned duration is the same elapsed time for callers that aggregate measurements.
func SLogMeasureFunction(ctx context.Context, functionName string, args ...any) func(args ...any) time.Duration {
	var (
		then          = time.Now()
		measurementID = slogMeasureID.Add(1)
		allArgs       = append(append([]any{}, args...), slog.String("fn", functionName), slog.Int64("measurement_id", measurementID))
	)

	slog.DebugContext(ctx, "SLogMeasureFunction", append(allArgs, slog.String("state", "enter"))...)

	return func(exitArgs ...any) time.Duration {
		elapsed := time.Since(then)

		logArgs := append(append([]any{}, allArgs...), slog.Duration("elapsed", elapsed), slog.String("state", "exit"))
		slog.InfoContext(ctx, "SLogMeasureFunction", append(logArgs, exitArgs...)...)

		return elapsed
	}
}

func SLogError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{slog.String("err", err.Error())}, args...)
	slog.ErrorContext(ctx, msg, allArgs...)
}
