package testutil

import (
	"context"
	"testing"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/vecfile"
	"github.com/stretchr/testify/require"
)

// Dataset is a small generated benchmark dataset.
type Dataset struct {
	Base        *vecfile.Matrix[float32]
	Queries     *vecfile.Matrix[float32]
	GroundTruth *vecfile.Matrix[int32]
}

// NewDataset generates a clustered dataset with exact ground truth for k.
func NewDataset(seed int64, rows, queries, dim, k int) *Dataset {
	rng := NewRNG(seed)
	base := rng.ClusteredMatrix(rows, dim, 8, 0.2)
	q := rng.ClusteredMatrix(queries, dim, 8, 0.2)
	return &Dataset{
		Base:        base,
		Queries:     q,
		GroundTruth: GroundTruth(base, q, k),
	}
}

// Put writes the dataset to store as <prefix>_base.fvecs, <prefix>_query.fvecs
// and <prefix>_groundtruth.ivecs. ext is appended to each name (e.g. ".zst").
func (d *Dataset) Put(t testing.TB, store blobstore.Store, prefix, ext string) (base, query, gt string) {
	t.Helper()
	ctx := context.Background()

	base = prefix + "_base.fvecs" + ext
	query = prefix + "_query.fvecs" + ext
	gt = prefix + "_groundtruth.ivecs" + ext

	require.NoError(t, vecfile.Save(ctx, store, base, d.Base))
	require.NoError(t, vecfile.Save(ctx, store, query, d.Queries))
	require.NoError(t, vecfile.Save(ctx, store, gt, d.GroundTruth))
	return base, query, gt
}
