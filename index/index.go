package index

import (
	"context"
	"io"

	"github.com/hupe1980/annlab/vecfile"
)

// Index is an index under test.
type Index interface {
	io.WriterTo

	// Dim returns the vector dimensionality.
	Dim() int

	// Len returns the number of indexed vectors.
	Len() int

	// Add appends the rows of base. Row i of the first call gets id 0.
	Add(ctx context.Context, base *vecfile.Matrix[float32]) error

	// Search returns, per query row, the ids of the k nearest vectors, closest
	// first. Rows are padded with -1 when fewer than k vectors exist.
	Search(ctx context.Context, queries *vecfile.Matrix[float32], k int) ([][]int64, error)
}

// Factory creates an empty index for vectors of the given dimension.
type Factory func(dim int) (Index, error)
