package annlab

import (
	"errors"
	"fmt"

	"github.com/hupe1980/annlab/index"
)

var (
	// ErrInvalidK is returned when k is not positive or exceeds index.MaxK.
	ErrInvalidK = errors.New("k must be positive and at most index.MaxK")

	// ErrMissingDataset is returned when an experiment names no base or query set.
	ErrMissingDataset = errors.New("missing dataset")
)

// ErrDimensionMismatch indicates that two datasets of an experiment, or a
// dataset and the index, disagree on dimensionality.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	if errors.Is(err, index.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	return err
}
