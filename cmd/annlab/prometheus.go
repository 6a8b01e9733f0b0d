package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements annlab.MetricsCollector.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	loaded    *prometheus.CounterVec
	queries   *prometheus.CounterVec
	recall    *prometheus.GaugeVec
	recallAtK *prometheus.GaugeVec
	footprint *prometheus.GaugeVec
}

// NewPrometheusCollector creates the collector and registers it with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "annlab_operation_latency_seconds",
			Help:    "Latency of experiment phases",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		loaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annlab_loaded_rows_total",
			Help: "Vectors decoded from datasets",
		}, []string{"dataset"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annlab_search_queries_total",
			Help: "Queries searched",
		}, []string{"index"}),
		recall: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "annlab_recall_ratio",
			Help: "Recall of the latest run",
		}, []string{"index"}),
		recallAtK: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "annlab_recall_at_k_ratio",
			Help: "Recall@k of the latest run",
		}, []string{"index"}),
		footprint: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "annlab_index_footprint_bytes",
			Help: "Serialized size of the index under test",
		}, []string{"index"}),
	}

	reg.MustRegister(c.opLatency, c.loaded, c.queries, c.recall, c.recallAtK, c.footprint)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *PrometheusCollector) RecordLoad(dataset string, rows int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("load", status(err)).Observe(d.Seconds())
	if err == nil {
		c.loaded.WithLabelValues(dataset).Add(float64(rows))
	}
}

func (c *PrometheusCollector) RecordBuild(_ string, _ int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("build", status(err)).Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordSearch(index string, _, queries int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("search", status(err)).Observe(d.Seconds())
	if err == nil {
		c.queries.WithLabelValues(index).Add(float64(queries))
	}
}

func (c *PrometheusCollector) RecordRecall(index string, recall, recallAtK float64) {
	c.recall.WithLabelValues(index).Set(recall)
	c.recallAtK.WithLabelValues(index).Set(recallAtK)
}

func (c *PrometheusCollector) RecordFootprint(index string, bytes int64, err error) {
	if err == nil {
		c.footprint.WithLabelValues(index).Set(float64(bytes))
	}
}
