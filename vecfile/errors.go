package vecfile

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every *FormatError via errors.Is.
var ErrFormat = errors.New("vecfile: malformed input")

// FormatError reports input that does not follow the vector file layout.
type FormatError struct {
	Format Format
	// Offset is the byte offset of the record where the problem was found.
	Offset int64
	// Dim is the dimension declared by the first record, 0 if unknown.
	Dim    int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vecfile: malformed %s at offset %d: %s", e.Format, e.Offset, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
