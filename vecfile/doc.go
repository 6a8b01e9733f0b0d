// Package vecfile reads and writes the TEXMEX vector formats used by the
// SIFT/GIST ANN benchmarks.
//
// Every record is a little-endian int32 dimension D followed by D payload
// elements:
//
//	.fvecs  float32 payload (base and query vectors)
//	.ivecs  int32 payload   (ground-truth neighbor ids)
//	.bvecs  uint8 payload   (SIFT1B)
//
// All records in a file share the same D. Decoders strip the header from
// every row and return a dense row-major [Matrix]. Malformed input yields a
// [*FormatError] and never a partial matrix.
//
//	base, err := vecfile.ReadFvecs(f)
//	gt, err := vecfile.Open[int32](ctx, "sift/sift_groundtruth.ivecs")
//
// Files ending in .zst or .lz4 are decompressed transparently by [Open] and
// [Load]; uncompressed local files are memory-mapped.
package vecfile
