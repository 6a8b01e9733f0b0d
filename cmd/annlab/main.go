// Command annlab runs approximate nearest neighbor experiments against fvecs
// datasets and reports recall, throughput and index footprint.
//
//	annlab run -store s3://bench/sift -base sift_base.fvecs -queries sift_query.fvecs -gt sift_groundtruth.ivecs -k 10
//	annlab gt  -store ./data -base base.fvecs -queries query.fvecs -k 100 -out gt.ivecs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/annlab"
	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/codec"
	"github.com/hupe1980/annlab/index"
	"github.com/hupe1980/annlab/internal/resource"
	"github.com/hupe1980/annlab/report"
	"github.com/hupe1980/annlab/vecfile"
)

const usage = `usage: annlab <command> [flags]

commands:
  run   build an index over a base set, search it and score recall
  gt    compute exact ground truth and save it as ivecs
`

// common holds flags shared by every subcommand.
type common struct {
	store     string
	cacheDir  string
	region    string
	endpoint  string
	base      string
	queries   string
	k         int
	workers   int
	memLimit  int64
	ioLimit   int64
	logFormat string
	logLevel  string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.store, "store", ".", "dataset location: directory, s3://bucket/prefix or minio://host/bucket/prefix")
	fs.StringVar(&c.cacheDir, "cache-dir", "", "keep local copies of remote datasets in this directory")
	fs.StringVar(&c.region, "region", "", "AWS region override")
	fs.StringVar(&c.endpoint, "endpoint", "", "S3-compatible endpoint override")
	fs.StringVar(&c.base, "base", "", "base vectors (fvecs)")
	fs.StringVar(&c.queries, "queries", "", "query vectors (fvecs)")
	fs.IntVar(&c.k, "k", 10, "neighbors per query")
	fs.IntVar(&c.workers, "workers", 3, "concurrent dataset loads")
	fs.Int64Var(&c.memLimit, "mem-limit", 0, "decoded dataset memory limit in bytes (0 = unlimited)")
	fs.Int64Var(&c.ioLimit, "io-limit", 0, "streamed read limit in bytes per second (0 = unlimited)")
	fs.StringVar(&c.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

func (c *common) logger(w io.Writer) (*annlab.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q", c.logLevel)
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.logFormat) {
	case "text":
		return annlab.NewLogger(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return annlab.NewLogger(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("invalid -log-format %q", c.logFormat)
	}
}

func (c *common) openStore(ctx context.Context) (blobstore.Store, error) {
	store, err := openStore(ctx, c.store, c.region, c.endpoint)
	if err != nil {
		return nil, err
	}
	if _, local := store.(*blobstore.LocalStore); local || c.cacheDir == "" {
		return store, nil
	}
	return blobstore.NewCachingStore(store, blobstore.NewLocalStore(c.cacheDir)), nil
}

func (c *common) labOptions(logger *annlab.Logger, store blobstore.Store) []annlab.Option {
	return []annlab.Option{
		annlab.WithLogger(logger),
		annlab.WithStore(store),
		annlab.WithResources(resource.Config{
			MaxWorkers:         c.workers,
			MemoryLimitBytes:   c.memLimit,
			IOLimitBytesPerSec: c.ioLimit,
		}),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "annlab:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return flag.ErrHelp
	}

	switch args[0] {
	case "run":
		return runExperiment(ctx, args[1:], stdout, stderr)
	case "gt":
		return runGroundTruth(ctx, args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runExperiment(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var c common
	c.register(fs)
	var (
		name        = fs.String("name", "", "experiment name (defaults to the base dataset)")
		gt          = fs.String("gt", "", "ground truth (ivecs); computed exactly when empty")
		indexName   = fs.String("index", annlab.DefaultIndex, "index under test: "+strings.Join(index.Names(), ", "))
		maxBase     = fs.Int("max-base", 0, "use only the first n base vectors (0 = all)")
		reportStore = fs.String("report-store", "", "store that receives JSON reports (empty = none)")
		reportCodec = fs.String("report-codec", codec.Default.Name(), "report codec: "+strings.Join(codec.Names(), ", "))
		ddbTable    = fs.String("dynamodb-table", "", "DynamoDB table that receives reports (empty = none)")
		metricsAddr = fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :2112")
		linger      = fs.Duration("metrics-linger", 0, "keep serving metrics this long after the run")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := c.logger(stderr)
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	opts := c.labOptions(logger, store)

	sinks := []report.Sink{report.NewLogSink(logger.Logger)}
	if *reportStore != "" {
		rs, err := openStore(ctx, *reportStore, c.region, c.endpoint)
		if err != nil {
			return err
		}
		cd, ok := codec.ByName(*reportCodec)
		if !ok {
			return fmt.Errorf("unknown -report-codec %q", *reportCodec)
		}
		sinks = append(sinks, report.NewBlobSink(rs, report.WithCodec(cd)))
	}
	if *ddbTable != "" {
		var loadOpts []func(*config.LoadOptions) error
		if c.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(c.region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return fmt.Errorf("load aws config: %w", err)
		}
		sinks = append(sinks, report.NewDynamoDBSink(dynamodb.NewFromConfig(cfg), *ddbTable))
	}
	opts = append(opts, annlab.WithSinks(sinks...))

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, annlab.WithMetricsCollector(NewPrometheusCollector(reg)))

		srv := &http.Server{Addr: *metricsAddr, Handler: metricsHandler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			if *linger > 0 {
				logger.Info("serving metrics", "addr", *metricsAddr, "for", *linger)
				select {
				case <-time.After(*linger):
				case <-ctx.Done():
				}
			}
			_ = srv.Close()
		}()
	}

	lab := annlab.New(opts...)
	rep, err := lab.Run(ctx, annlab.Experiment{
		Name:        *name,
		Base:        c.base,
		Queries:     c.queries,
		GroundTruth: *gt,
		K:           c.k,
		Index:       *indexName,
		MaxBase:     *maxBase,
	})
	if rep != nil {
		fmt.Fprintln(stdout, rep)
	}
	return err
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func runGroundTruth(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("gt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var c common
	c.register(fs)
	out := fs.String("out", "", "output name in the store (.ivecs, optionally .zst or .lz4)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("gt: -out is required")
	}

	logger, err := c.logger(stderr)
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	gt, err := annlab.New(c.labOptions(logger, store)...).GroundTruth(ctx, c.base, c.queries, c.k)
	if err != nil {
		return err
	}
	if err := vecfile.Save(ctx, store, *out, gt); err != nil {
		return err
	}
	logger.Info("ground truth written", "name", *out, "rows", gt.Rows, "k", gt.Dim, "duration", time.Since(start))
	return nil
}
