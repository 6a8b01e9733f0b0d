package annlab

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func newTextHandler(w *syncBuffer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	var buf syncBuffer
	l := NewLogger(newTextHandler(&buf)).WithExperiment("sift").WithDataset("sift_base.fvecs").WithK(10)

	l.LogLoad(ctx, "sift_base.fvecs", 1000, 128, time.Second, nil)
	l.LogBuild(ctx, "flat", 1000, time.Second, nil)
	l.LogSearch(ctx, 10, 100, time.Millisecond, errors.New("boom"))
	l.LogRecall(ctx, 0.5, 0.25, nil)
	l.LogProbe(ctx, 4096, nil)

	out := buf.String()
	assert.Contains(t, out, "experiment=sift")
	assert.Contains(t, out, "dataset=sift_base.fvecs")
	assert.Contains(t, out, "k=10")
	assert.Contains(t, out, "index built")
	assert.Contains(t, out, "search failed")
	assert.Contains(t, out, "recall_at_k=0.25")
	assert.Contains(t, out, "bytes=4096")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogLoad(context.Background(), "x", 0, 0, 0, errors.New("ignored"))
}

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	m.RecordLoad("a", 10, time.Millisecond, nil)
	m.RecordLoad("b", 0, time.Millisecond, errors.New("x"))
	m.RecordBuild("flat", 10, time.Second, nil)
	m.RecordSearch("flat", 5, 4, 2*time.Second, nil)
	m.RecordSearch("flat", 5, 4, 4*time.Second, errors.New("x"))
	m.RecordRecall("flat", 0.75, 0.5)
	m.RecordFootprint("flat", 1234, nil)
	m.RecordFootprint("flat", 0, errors.New("x"))

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, int64(10), stats.LoadedRows)
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(4), stats.SearchQueries)
	assert.Equal(t, (3 * time.Second).Nanoseconds(), stats.SearchAvgNanos)
	assert.Equal(t, 0.75, stats.Recall)
	assert.Equal(t, 0.5, stats.RecallAtK)
	assert.Equal(t, int64(1234), stats.FootprintBytes)

	var _ MetricsCollector = NoopMetricsCollector{}
}
