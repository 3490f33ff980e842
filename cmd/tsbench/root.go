package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	SilenceErrors: true,
	SilenceUsage:  true,
	Use:           "tsbench",
	Short:         "Exercise and time the thread-safe array and deque from many goroutines",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		slog.Error("tsbench failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

func newLogHandler(cmd *cobra.Command, level slog.Level, format string) (slog.Handler, error) {
	options := &slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(cmd.ErrOrStderr(), options), nil

	case "json":
		return slog.NewJSONHandler(cmd.ErrOrStderr(), options), nil

	default:
		return nil, fmt.Errorf("invalid log format: %q", format)
	}
}

func initLogging(cmd *cobra.Command) error {
	var level slog.Level

	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level: %q", logLevel)
	}

	handler, err := newLogHandler(cmd, level, logFormat)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", slog.String("level", level.String()), slog.String("format", logFormat))

	return nil
}
