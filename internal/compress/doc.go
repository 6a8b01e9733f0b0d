// Package compress wraps zstd and lz4 streams behind one small API.
//
// Datasets may be stored as "sift_base.fvecs.zst" or "sift_base.fvecs.lz4";
// [FromName] picks the algorithm from the suffix and [NewReader] unwraps it.
// Index serializers use [NewWriter] to measure compressed footprints.
package compress
