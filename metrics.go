package annlab

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting experiment metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// cmd/annlab ships a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after each dataset load.
	RecordLoad(dataset string, rows int, duration time.Duration, err error)

	// RecordBuild is called after the index under test has been built.
	RecordBuild(index string, rows int, duration time.Duration, err error)

	// RecordSearch is called after the batch of queries has been searched.
	RecordSearch(index string, k, queries int, duration time.Duration, err error)

	// RecordRecall is called with the scores of a run.
	RecordRecall(index string, recall, recallAtK float64)

	// RecordFootprint is called after the footprint probe.
	RecordFootprint(index string, bytes int64, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(string, int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordBuild(string, int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordSearch(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRecall(string, float64, float64)               {}
func (NoopMetricsCollector) RecordFootprint(string, int64, error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	LoadedRows       atomic.Int64
	LoadTotalNanos   atomic.Int64
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchQueries    atomic.Int64
	SearchTotalNanos atomic.Int64
	FootprintErrors  atomic.Int64
	FootprintBytes   atomic.Int64
	recallBits       atomic.Uint64
	recallAtKBits    atomic.Uint64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ string, rows int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedRows.Add(int64(rows))
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(_ string, _ int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_ string, _ int, queries int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.SearchQueries.Add(int64(queries))
}

// RecordRecall implements MetricsCollector. Only the latest scores are kept.
func (b *BasicMetricsCollector) RecordRecall(_ string, recall, recallAtK float64) {
	b.recallBits.Store(math.Float64bits(recall))
	b.recallAtKBits.Store(math.Float64bits(recallAtK))
}

// RecordFootprint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFootprint(_ string, bytes int64, err error) {
	if err != nil {
		b.FootprintErrors.Add(1)
		return
	}
	b.FootprintBytes.Store(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadedRows:     b.LoadedRows.Load(),
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchQueries:  b.SearchQueries.Load(),
		SearchAvgNanos: avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		Recall:         math.Float64frombits(b.recallBits.Load()),
		RecallAtK:      math.Float64frombits(b.recallAtKBits.Load()),
		FootprintBytes: b.FootprintBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount      int64
	LoadErrors     int64
	LoadedRows     int64
	BuildCount     int64
	BuildErrors    int64
	SearchCount    int64
	SearchErrors   int64
	SearchQueries  int64
	SearchAvgNanos int64
	Recall         float64
	RecallAtK      float64
	FootprintBytes int64
}
