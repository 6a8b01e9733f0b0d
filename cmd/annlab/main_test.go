package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/report"
	"github.com/hupe1980/annlab/testutil"
	"github.com/hupe1980/annlab/vecfile"
)

func TestRun_GroundTruthThenExperiment(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := blobstore.NewLocalStore(dir)
	d := testutil.NewDataset(99, 200, 20, 8, 5)
	base, query, _ := d.Put(t, store, "cli", "")

	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"gt", "-store", dir, "-base", base, "-queries", query, "-k", "5", "-out", "computed.ivecs.zst"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	gt, err := vecfile.Load[int32](ctx, store, "computed.ivecs.zst")
	require.NoError(t, err)
	assert.Equal(t, d.GroundTruth.Data, gt.Data)

	reports := filepath.Join(dir, "out")
	err = run(ctx, []string{
		"run", "-store", "file://" + dir, "-base", base, "-queries", query, "-gt", "computed.ivecs.zst",
		"-k", "5", "-name", "cli", "-report-store", reports, "-report-codec", "json", "-log-format", "json",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "cli [flat]")
	assert.Contains(t, stdout.String(), "recall=1.0000")
	assert.Contains(t, stderr.String(), `"msg":"experiment report"`)

	entries, err := os.ReadDir(filepath.Join(reports, report.DefaultPrefix))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_Usage(t *testing.T) {
	ctx := context.Background()
	var stdout, stderr bytes.Buffer

	assert.ErrorIs(t, run(ctx, nil, &stdout, &stderr), flag.ErrHelp)
	assert.Contains(t, stderr.String(), "usage: annlab")

	assert.Error(t, run(ctx, []string{"bogus"}, &stdout, &stderr))
	assert.NoError(t, run(ctx, []string{"help"}, &stdout, &stderr))

	err := run(ctx, []string{"gt", "-store", t.TempDir(), "-base", "b.fvecs", "-queries", "q.fvecs"}, &stdout, &stderr)
	assert.ErrorContains(t, err, "-out is required")

	err = run(ctx, []string{"run", "-log-level", "loud"}, &stdout, &stderr)
	assert.ErrorContains(t, err, "-log-level")

	err = run(ctx, []string{"run", "-log-format", "xml"}, &stdout, &stderr)
	assert.ErrorContains(t, err, "-log-format")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := openStore(ctx, dir, "", "")
	require.NoError(t, err)
	assert.Equal(t, dir, s.(*blobstore.LocalStore).Root())

	s, err = openStore(ctx, "file://"+dir, "", "")
	require.NoError(t, err)
	assert.Equal(t, dir, s.(*blobstore.LocalStore).Root())

	_, err = openStore(ctx, "ftp://host/x", "", "")
	assert.ErrorContains(t, err, "unsupported scheme")

	_, err = openStore(ctx, "s3:///prefix", "", "")
	assert.ErrorContains(t, err, "missing bucket")

	_, err = openStore(ctx, "minio://localhost:9000", "", "")
	assert.ErrorContains(t, err, "want minio://")

	assert.Equal(t, "a/b", prefixOf("/a/b/"))
	assert.Empty(t, prefixOf("/"))
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordLoad("base.fvecs", 100, time.Millisecond, nil)
	c.RecordLoad("gone.fvecs", 0, time.Millisecond, errors.New("x"))
	c.RecordBuild("flat", 100, time.Millisecond, nil)
	c.RecordSearch("flat", 10, 25, time.Millisecond, nil)
	c.RecordRecall("flat", 0.9, 0.8)
	c.RecordFootprint("flat", 4096, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				values[mf.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 100.0, values["annlab_loaded_rows_total"])
	assert.Equal(t, 25.0, values["annlab_search_queries_total"])
	assert.Equal(t, 0.9, values["annlab_recall_ratio"])
	assert.Equal(t, 0.8, values["annlab_recall_at_k_ratio"])
	assert.Equal(t, 4096.0, values["annlab_index_footprint_bytes"])
	assert.Equal(t, 4.0, values["annlab_operation_latency_seconds"])
}
