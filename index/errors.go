package index

import (
	"errors"
	"fmt"

	"github.com/hupe1980/annlab/vecfile"
)

// MaxK bounds k for every search. It matches the widest row a vecfile can hold.
const MaxK = vecfile.MaxDim

// ErrInvalidK is returned for a k outside [1, MaxK].
var ErrInvalidK = errors.New("index: k must be positive and at most MaxK")

// ErrUnknownIndex is returned by Lookup for unregistered names.
var ErrUnknownIndex = errors.New("index: unknown index")

// ErrDimensionMismatch is a named error type for dimension mismatch
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
