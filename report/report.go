package report

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Report is the outcome of one experiment run.
type Report struct {
	Experiment string `json:"experiment"`
	Index      string `json:"index"`

	BaseRows  int `json:"base_rows"`
	QueryRows int `json:"query_rows"`
	Dim       int `json:"dim"`
	K         int `json:"k"`

	// GroundTruthComputed is set when no ground-truth file was given and the
	// exact neighbors were computed with the flat index.
	GroundTruthComputed bool `json:"ground_truth_computed"`

	BuildDuration  time.Duration `json:"build_duration_ns"`
	SearchDuration time.Duration `json:"search_duration_ns"`
	QPS            float64       `json:"qps"`

	// Recall is the fraction of queries whose nearest neighbor is in the result row.
	Recall float64 `json:"recall"`
	// RecallAtK is the top-k set overlap.
	RecallAtK float64 `json:"recall_at_k"`

	FootprintBytes int64   `json:"footprint_bytes"`
	FootprintMiB   float64 `json:"footprint_mib"`

	RunAt time.Time `json:"run_at"`
}

// String returns a compact human-readable summary.
func (r *Report) String() string {
	return fmt.Sprintf("%s [%s] n=%d q=%d d=%d k=%d recall=%.4f recall@k=%.4f qps=%.1f build=%s footprint=%.2fMiB",
		r.Experiment, r.Index, r.BaseRows, r.QueryRows, r.Dim, r.K,
		r.Recall, r.RecallAtK, r.QPS, r.BuildDuration.Round(time.Millisecond), r.FootprintMiB)
}

// Sink publishes reports.
type Sink interface {
	Name() string
	Write(ctx context.Context, r *Report) error
}

// WriteAll writes r to every sink, continuing past failures.
// The returned error joins every sink error.
func WriteAll(ctx context.Context, r *Report, sinks ...Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("report sink %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
