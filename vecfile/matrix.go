package vecfile

import "fmt"

// Element is the set of payload types a vector file can carry.
type Element interface {
	float32 | int32 | uint8
}

// Matrix is a dense row-major matrix backed by a single slice.
type Matrix[T Element] struct {
	Rows int
	Dim  int
	Data []T
}

// NewMatrix allocates a zeroed rows x dim matrix.
func NewMatrix[T Element](rows, dim int) *Matrix[T] {
	return &Matrix[T]{Rows: rows, Dim: dim, Data: make([]T, rows*dim)}
}

// FromRows copies rows into a new Matrix. All rows must have the same, non-zero length.
func FromRows[T Element](rows [][]T) (*Matrix[T], error) {
	if len(rows) == 0 {
		return &Matrix[T]{}, nil
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("vecfile: row 0 is empty")
	}
	m := NewMatrix[T](len(rows), dim)
	for i, r := range rows {
		if len(r) != dim {
			return nil, fmt.Errorf("vecfile: row %d has %d elements, want %d", i, len(r), dim)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// Row returns row i. The slice aliases the matrix data.
func (m *Matrix[T]) Row(i int) []T {
	return m.Data[i*m.Dim : (i+1)*m.Dim : (i+1)*m.Dim]
}

// ToRows returns one slice per row, each aliasing the matrix data.
func (m *Matrix[T]) ToRows() [][]T {
	rows := make([][]T, m.Rows)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return rows
}

// Head returns a view of the first n rows (all rows if n <= 0 or n >= Rows).
func (m *Matrix[T]) Head(n int) *Matrix[T] {
	if n <= 0 || n >= m.Rows {
		return m
	}
	return &Matrix[T]{Rows: n, Dim: m.Dim, Data: m.Data[:n*m.Dim]}
}

// SizeBytes is the in-memory payload size.
func (m *Matrix[T]) SizeBytes() int64 {
	return int64(len(m.Data)) * int64(elemSize[T]())
}

func (m *Matrix[T]) validate() error {
	if m == nil {
		return fmt.Errorf("vecfile: nil matrix")
	}
	if m.Rows < 0 || m.Dim < 0 || len(m.Data) != m.Rows*m.Dim {
		return fmt.Errorf("vecfile: matrix data length %d does not match %dx%d", len(m.Data), m.Rows, m.Dim)
	}
	if m.Rows > 0 && m.Dim == 0 {
		return fmt.Errorf("vecfile: matrix has %d rows of dimension 0", m.Rows)
	}
	if m.Dim > MaxDim {
		return fmt.Errorf("vecfile: dimension %d exceeds %d", m.Dim, MaxDim)
	}
	return nil
}
