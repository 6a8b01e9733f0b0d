// Package report defines the outcome of an experiment run and the sinks
// that publish it.
//
// Sinks:
//   - BlobSink writes reports/<experiment>-<timestamp>.json to any blobstore.Store
//   - DynamoDBSink puts one item per run into a table keyed by experiment and run_at
//   - LogSink logs a one-line summary through slog
package report
