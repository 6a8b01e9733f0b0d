package recall

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("recall: invalid input")

// ValidationError reports tables that cannot be scored against each other.
type ValidationError struct {
	Field    string
	Expected int
	Actual   int
	Msg      string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("recall: %s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("recall: %s: expected %d, got %d", e.Field, e.Expected, e.Actual)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
