// Package testutil provides testing utilities for annlab.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random datasets, computing exact
// nearest neighbors independently of any index, and writing fixtures.
//
// # Random Datasets
//
//	rng := testutil.NewRNG(seed)
//	base := rng.UniformMatrix(1000, 32)   // uniform [0, 1)
//	queries := rng.ClusteredMatrix(100, 32, 8, 0.1)
//
// # Exact Search (Ground Truth)
//
//	ids := testutil.BruteForceSearch(base, queries, k)
//	gt := testutil.GroundTruth(base, queries, k)  // *vecfile.Matrix[int32]
package testutil
