package footprint

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIndex is returned when Measure is called without an index.
	ErrNilIndex = errors.New("footprint: nil index")

	// ErrInvalidUnit is returned by MeasureIn for a non-positive unit.
	ErrInvalidUnit = errors.New("footprint: invalid unit")
)

// IOError describes a filesystem failure while probing.
// Op is one of create, write, sync, stat, close or remove.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("footprint: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
