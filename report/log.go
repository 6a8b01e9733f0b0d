package report

import (
	"context"
	"log/slog"
)

// LogSink logs each report at info level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Name returns "log".
func (s *LogSink) Name() string { return "log" }

// Write logs r.
func (s *LogSink) Write(ctx context.Context, r *Report) error {
	s.logger.InfoContext(ctx, "experiment report",
		"experiment", r.Experiment,
		"index", r.Index,
		"base_rows", r.BaseRows,
		"query_rows", r.QueryRows,
		"dim", r.Dim,
		"k", r.K,
		"recall", r.Recall,
		"recall_at_k", r.RecallAtK,
		"qps", r.QPS,
		"build", r.BuildDuration,
		"search", r.SearchDuration,
		"footprint_mib", r.FootprintMiB,
	)
	return nil
}
