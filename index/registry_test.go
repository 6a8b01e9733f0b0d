package index

import (
	"context"
	"io"
	"testing"

	"github.com/hupe1980/annlab/vecfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIndex struct{ dim int }

func (s stubIndex) WriteTo(io.Writer) (int64, error)                    { return 0, nil }
func (s stubIndex) Dim() int                                            { return s.dim }
func (s stubIndex) Len() int                                            { return 0 }
func (s stubIndex) Add(context.Context, *vecfile.Matrix[float32]) error { return nil }
func (s stubIndex) Search(context.Context, *vecfile.Matrix[float32], int) ([][]int64, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	Register("Stub-Test", func(dim int) (Index, error) { return stubIndex{dim: dim}, nil })

	f, err := Lookup("stub-test")
	require.NoError(t, err)
	idx, err := f(8)
	require.NoError(t, err)
	assert.Equal(t, 8, idx.Dim())

	assert.Contains(t, Names(), "stub-test")

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownIndex)
	assert.Contains(t, err.Error(), "stub-test")

	assert.Panics(t, func() { Register("STUB-TEST", func(int) (Index, error) { return nil, nil }) })
	assert.Panics(t, func() { Register("", func(int) (Index, error) { return nil, nil }) })
	assert.Panics(t, func() { Register("nil-factory", nil) })
}

func TestErrDimensionMismatch(t *testing.T) {
	var err error = &ErrDimensionMismatch{Expected: 128, Actual: 96}
	assert.Equal(t, "dimension mismatch: expected 128, got 96", err.Error())
}
