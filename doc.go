// Package annlab runs approximate nearest-neighbor experiments against the
// TEXMEX benchmark datasets (SIFT, GIST, BIGANN).
//
// An experiment loads a base set, a query set and optionally exact ground
// truth in fvecs/ivecs format, builds an index, runs every query and scores
// the results:
//
//	lab := annlab.New(
//	    annlab.WithStore(blobstore.NewLocalStore("./sift")),
//	    annlab.WithSinks(report.NewBlobSink(blobstore.NewLocalStore("./out"))),
//	)
//	rep, err := lab.Run(ctx, annlab.Experiment{
//	    Name:        "sift-flat",
//	    Base:        "sift_base.fvecs",
//	    Queries:     "sift_query.fvecs",
//	    GroundTruth: "sift_groundtruth.ivecs",
//	    K:           100,
//	    Index:       "flat",
//	})
//
// # Scores
//
// Report.Recall is the classic 1-recall@k: the fraction of queries whose true
// nearest neighbor appears anywhere in the k returned ids. Report.RecallAtK is
// the top-k set overlap. Report.FootprintBytes is the size of the serialized
// index as measured by the footprint probe.
//
// # Datasets
//
// Dataset names are resolved against the configured blobstore.Store: a local
// directory (memory-mapped), Amazon S3 or MinIO. A ".zst" or ".lz4" suffix
// selects transparent decompression. When no ground truth is given, exact
// neighbors are computed with the flat index.
//
// # Indexes
//
// Indexes are selected by name from the index registry. Import an index
// package for its side effect to register it; the flat reference index is
// always available.
package annlab
