package annlab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/footprint"
	"github.com/hupe1980/annlab/index"
	"github.com/hupe1980/annlab/index/flat"
	"github.com/hupe1980/annlab/internal/resource"
	"github.com/hupe1980/annlab/recall"
	"github.com/hupe1980/annlab/report"
	"github.com/hupe1980/annlab/vecfile"
)

// DefaultIndex is the index used when an experiment names none.
const DefaultIndex = flat.Name

// Experiment describes one run.
type Experiment struct {
	// Name identifies the run in reports. Defaults to the base dataset name.
	Name string

	// Base, Queries and GroundTruth are dataset names in the Lab's store.
	// GroundTruth is optional; without it exact neighbors are computed.
	Base        string
	Queries     string
	GroundTruth string

	// K is the number of neighbors searched per query.
	K int

	// Index is the registry name of the index under test.
	Index string

	// MaxBase keeps only the first MaxBase base vectors. Zero keeps all.
	MaxBase int
}

// Lab runs experiments. It is safe for concurrent use.
type Lab struct {
	opts options
	res  *resource.Controller
}

// New creates a Lab.
func New(optFns ...Option) *Lab {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		resources:        resource.Config{MaxWorkers: 3},
		now:              time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.store == nil {
		opts.store = blobstore.NewLocalStore(".")
	}
	if opts.probe == nil {
		opts.probe = footprint.New(footprint.WithLogger(opts.logger.Logger))
	}

	return &Lab{
		opts: opts,
		res:  resource.NewController(opts.resources),
	}
}

type datasets struct {
	base    *vecfile.Matrix[float32]
	queries *vecfile.Matrix[float32]
	gt      *vecfile.Matrix[int32]
}

// Run executes exp and publishes the report to every sink.
//
// A non-nil report is returned whenever the experiment itself completed; sink
// failures are then returned as a joined error alongside it.
func (l *Lab) Run(ctx context.Context, exp Experiment) (*report.Report, error) {
	if exp.K <= 0 || exp.K > index.MaxK {
		return nil, ErrInvalidK
	}
	if exp.Base == "" || exp.Queries == "" {
		return nil, fmt.Errorf("%w: base and queries are required", ErrMissingDataset)
	}
	if exp.Index == "" {
		exp.Index = DefaultIndex
	}
	if exp.Name == "" {
		exp.Name = exp.Base
	}

	factory, err := index.Lookup(exp.Index)
	if err != nil {
		return nil, err
	}

	log := l.opts.logger.WithExperiment(exp.Name).WithK(exp.K)
	runAt := l.opts.now().UTC()

	var held atomic.Int64
	defer func() { l.res.ReleaseMemory(held.Load()) }()

	ds, err := l.load(ctx, log, exp, &held)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		Experiment: exp.Name,
		Index:      exp.Index,
		BaseRows:   ds.base.Rows,
		QueryRows:  ds.queries.Rows,
		Dim:        ds.base.Dim,
		K:          exp.K,
		RunAt:      runAt,
	}

	if ds.gt == nil {
		rep.GroundTruthComputed = true
		if ds.gt, err = l.groundTruth(ctx, ds, exp.K); err != nil {
			return nil, fmt.Errorf("compute ground truth: %w", translateError(err))
		}
	} else if exp.MaxBase > 0 {
		log.WarnContext(ctx, "ground truth was computed on the full base set; recall may be understated",
			"max_base", exp.MaxBase)
	}
	if err := checkGroundTruth(ds.gt, ds.queries.Rows, exp.K); err != nil {
		return nil, err
	}

	idx, err := factory(ds.base.Dim)
	if err != nil {
		return nil, fmt.Errorf("create index %s: %w", exp.Index, err)
	}

	start := time.Now()
	err = idx.Add(ctx, ds.base)
	rep.BuildDuration = time.Since(start)
	l.opts.metricsCollector.RecordBuild(exp.Index, ds.base.Rows, rep.BuildDuration, err)
	log.LogBuild(ctx, exp.Index, ds.base.Rows, rep.BuildDuration, err)
	if err != nil {
		return nil, translateError(err)
	}

	start = time.Now()
	pred, err := idx.Search(ctx, ds.queries, exp.K)
	rep.SearchDuration = time.Since(start)
	l.opts.metricsCollector.RecordSearch(exp.Index, exp.K, ds.queries.Rows, rep.SearchDuration, err)
	log.LogSearch(ctx, exp.K, ds.queries.Rows, rep.SearchDuration, err)
	if err != nil {
		return nil, translateError(err)
	}
	if secs := rep.SearchDuration.Seconds(); secs > 0 {
		rep.QPS = float64(ds.queries.Rows) / secs
	}

	gt := widen(ds.gt)
	rep.Recall, err = recall.CompareRecall(gt, pred)
	if err == nil {
		rep.RecallAtK, err = recall.AtK(gt, pred, exp.K)
	}
	log.LogRecall(ctx, rep.Recall, rep.RecallAtK, err)
	if err != nil {
		return nil, err
	}
	l.opts.metricsCollector.RecordRecall(exp.Index, rep.Recall, rep.RecallAtK)

	rep.FootprintBytes, err = l.opts.probe.Measure(idx)
	l.opts.metricsCollector.RecordFootprint(exp.Index, rep.FootprintBytes, err)
	log.LogProbe(ctx, rep.FootprintBytes, err)
	if err != nil {
		return nil, err
	}
	rep.FootprintMiB = footprint.ToUnit(rep.FootprintBytes, footprint.MiB)

	return rep, report.WriteAll(ctx, rep, l.opts.sinks...)
}

func (l *Lab) load(ctx context.Context, log *Logger, exp Experiment, held *atomic.Int64) (*datasets, error) {
	ds := &datasets{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ds.base, err = loadDataset[float32](gctx, l, log, exp.Base, held, vecfile.WithLimit(exp.MaxBase))
		return err
	})
	g.Go(func() (err error) {
		ds.queries, err = loadDataset[float32](gctx, l, log, exp.Queries, held)
		return err
	})
	if exp.GroundTruth != "" {
		g.Go(func() (err error) {
			ds.gt, err = loadDataset[int32](gctx, l, log, exp.GroundTruth, held)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ds.queries.Dim != ds.base.Dim {
		return nil, &ErrDimensionMismatch{Expected: ds.base.Dim, Actual: ds.queries.Dim}
	}
	return ds, nil
}

// loadDataset reads one dataset while holding a worker slot. Streamed reads go
// through the IO limiter and decoded storage is charged to the memory budget
// before it is allocated.
func loadDataset[T vecfile.Element](ctx context.Context, l *Lab, log *Logger, name string, held *atomic.Int64, opts ...vecfile.Option) (*vecfile.Matrix[T], error) {
	if err := l.res.AcquireWorker(ctx); err != nil {
		return nil, err
	}
	defer l.res.ReleaseWorker()

	opts = append(opts,
		vecfile.WithReaderWrapper(func(r io.Reader) io.Reader {
			return l.res.Reader(ctx, r)
		}),
		vecfile.WithReserve(func(bytes int64) error {
			if err := l.res.AcquireMemory(bytes); err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			held.Add(bytes)
			return nil
		}),
	)

	start := time.Now()
	m, err := vecfile.Load[T](ctx, l.opts.store, name, opts...)
	duration := time.Since(start)

	rows, dim := 0, 0
	if m != nil {
		rows, dim = m.Rows, m.Dim
	}
	l.opts.metricsCollector.RecordLoad(name, rows, duration, err)
	log.LogLoad(ctx, name, rows, dim, duration, err)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrMissingDataset, err)
		}
		return nil, err
	}
	return m, nil
}

// GroundTruth loads base and queries from the store and returns the exact k
// nearest base ids for every query, ready to be saved as ivecs.
func (l *Lab) GroundTruth(ctx context.Context, base, queries string, k int) (*vecfile.Matrix[int32], error) {
	if k <= 0 || k > index.MaxK {
		return nil, ErrInvalidK
	}
	if base == "" || queries == "" {
		return nil, fmt.Errorf("%w: base and queries are required", ErrMissingDataset)
	}

	var held atomic.Int64
	defer func() { l.res.ReleaseMemory(held.Load()) }()

	ds, err := l.load(ctx, l.opts.logger.WithK(k), Experiment{Base: base, Queries: queries}, &held)
	if err != nil {
		return nil, err
	}
	gt, err := l.groundTruth(ctx, ds, k)
	return gt, translateError(err)
}

func (l *Lab) groundTruth(ctx context.Context, ds *datasets, k int) (*vecfile.Matrix[int32], error) {
	exact, err := flat.New(func(o *flat.Options) {
		o.Dimension = ds.base.Dim
		o.Workers = l.res.Workers()
	})
	if err != nil {
		return nil, err
	}
	if err := exact.Add(ctx, ds.base); err != nil {
		return nil, err
	}
	ids, err := exact.Search(ctx, ds.queries, k)
	if err != nil {
		return nil, err
	}

	gt := vecfile.NewMatrix[int32](len(ids), k)
	for i, row := range ids {
		dst := gt.Row(i)
		for j, id := range row {
			dst[j] = int32(id)
		}
	}
	return gt, nil
}

func checkGroundTruth(gt *vecfile.Matrix[int32], queries, k int) error {
	if gt.Rows != queries {
		return &recall.ValidationError{Field: "ground truth rows", Expected: queries, Actual: gt.Rows}
	}
	if gt.Dim < k {
		return &recall.ValidationError{Field: "ground truth width", Expected: k, Actual: gt.Dim}
	}
	return nil
}

func widen(m *vecfile.Matrix[int32]) [][]int64 {
	data := make([]int64, len(m.Data))
	for i, v := range m.Data {
		data[i] = int64(v)
	}
	rows := make([][]int64, m.Rows)
	for i := range rows {
		rows[i] = data[i*m.Dim : (i+1)*m.Dim : (i+1)*m.Dim]
	}
	return rows
}
