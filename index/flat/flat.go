// Package flat provides an exact brute-force index.
//
// Flat compares every query against every stored vector. It is the reference
// the approximate indexes are scored against and the source of computed
// ground truth.
package flat

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/annlab/distance"
	"github.com/hupe1980/annlab/index"
	"github.com/hupe1980/annlab/internal/compress"
	"github.com/hupe1980/annlab/internal/pool"
	"github.com/hupe1980/annlab/internal/queue"
	"github.com/hupe1980/annlab/vecfile"
)

// Name is the registry name of the flat index.
const Name = "flat"

// queriesPerTask is the number of queries one search goroutine handles.
const queriesPerTask = 32

// Compile-time check to ensure Flat satisfies the index interface.
var _ index.Index = (*Flat)(nil)

func init() {
	index.Register(Name, func(dim int) (index.Index, error) {
		return New(func(o *Options) { o.Dimension = dim })
	})
}

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed vector dimensionality for this index.
	// It must be > 0 and is enforced for all adds and searches.
	Dimension int

	// Metric selects the distance function.
	Metric distance.Metric

	// Workers bounds the number of concurrent search goroutines.
	// Zero means GOMAXPROCS.
	Workers int

	// Compression is applied to the vector payload by WriteTo.
	Compression compress.Type
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Metric:      distance.MetricL2,
	Compression: compress.None,
}

// Flat represents a flat index for vector storage and search.
// Searches may run concurrently with each other; Add excludes them.
type Flat struct {
	mu   sync.RWMutex
	data []float32
	dist distance.Func
	opts Options
}

// New creates a new instance of the flat index.
func New(optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension <= 0 || opts.Dimension > vecfile.MaxDim {
		return nil, fmt.Errorf("flat: invalid dimension %d", opts.Dimension)
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers()
	}

	dist, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	return &Flat{dist: dist, opts: opts}, nil
}

func defaultWorkers() int { return runtime.GOMAXPROCS(0) }

// Dim returns the vector dimensionality.
func (f *Flat) Dim() int { return f.opts.Dimension }

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.data) / f.opts.Dimension
}

// Options returns the options the index was created with.
func (f *Flat) Options() Options { return f.opts }

// Add appends the rows of base.
func (f *Flat) Add(ctx context.Context, base *vecfile.Matrix[float32]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if base.Dim != f.opts.Dimension {
		return &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: base.Dim}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, base.Data...)
	return nil
}

// Search returns the ids of the k nearest vectors for every query row.
// Ties are broken by the lower id; rows are padded with -1.
func (f *Flat) Search(ctx context.Context, queries *vecfile.Matrix[float32], k int) ([][]int64, error) {
	if k <= 0 || k > index.MaxK {
		return nil, index.ErrInvalidK
	}
	if queries.Dim != f.opts.Dimension {
		return nil, &index.ErrDimensionMismatch{Expected: f.opts.Dimension, Actual: queries.Dim}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	// The heap never holds more than the stored vectors.
	heapK := max(min(k, len(f.data)/f.opts.Dimension), 1)

	results := make([][]int64, queries.Rows)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Workers)

	for start := 0; start < queries.Rows; start += queriesPerTask {
		end := min(start+queriesPerTask, queries.Rows)
		g.Go(func() error {
			sc := pool.Get(heapK)
			defer pool.Put(sc)
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				f.scan(queries.Row(i), sc.Top)
				sc.Items = sc.Top.Drain(sc.Items[:0])

				row := make([]int64, k)
				for j := range row {
					row[j] = -1
				}
				for j, it := range sc.Items {
					row[j] = it.ID
				}
				results[i] = row
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scan pushes every stored vector into top. Callers hold f.mu.
func (f *Flat) scan(q []float32, top *queue.TopK) {
	dim := f.opts.Dimension
	n := len(f.data) / dim
	for id := range n {
		d := f.dist(q, f.data[id*dim:(id+1)*dim])
		top.Push(queue.Item{ID: int64(id), Distance: d})
	}
}
