package annlab

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with annlab-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithExperiment adds the experiment name to the logger.
func (l *Logger) WithExperiment(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("experiment", name),
	}
}

// WithDataset adds a dataset name field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, name string, rows, dim int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"dataset", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset loaded",
			"dataset", name,
			"rows", rows,
			"dimension", dim,
			"duration", duration,
		)
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, indexName string, rows int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"index", indexName,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index built",
			"index", indexName,
			"rows", rows,
			"duration", duration,
		)
	}
}

// LogSearch logs a batch search.
func (l *Logger) LogSearch(ctx context.Context, k, queries int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"k", k,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "search completed",
			"k", k,
			"queries", queries,
			"duration", duration,
		)
	}
}

// LogRecall logs the recall scores.
func (l *Logger) LogRecall(ctx context.Context, recall, recallAtK float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "recall failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "recall computed",
			"recall", recall,
			"recall_at_k", recallAtK,
		)
	}
}

// LogProbe logs a footprint measurement.
func (l *Logger) LogProbe(ctx context.Context, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "footprint probe failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "footprint measured",
			"bytes", bytes,
		)
	}
}
