package vecfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

type options struct {
	limit    int
	sizeHint int64
	wrap     func(io.Reader) io.Reader
	reserve  func(n int64) error
}

// streamRows is the initial row capacity when the input size is unknown.
const streamRows = 1024

// Option configures Read, Decode, Load and Open.
type Option func(*options)

// WithLimit keeps only the first n records. The remainder of the input is not read.
// n <= 0 means no limit.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithReaderWrapper wraps streamed (non-mappable) blobs before decoding,
// e.g. to apply an IO rate limit.
func WithReaderWrapper(fn func(io.Reader) io.Reader) Option {
	return func(o *options) { o.wrap = fn }
}

// WithReserve calls fn with the byte size of every allocation of decoded
// data before it is made. A non-nil error aborts decoding and is returned
// wrapped. Amounts passed to fn add up to the capacity of the result.
func WithReserve(fn func(n int64) error) Option {
	return func(o *options) { o.reserve = fn }
}

func newOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Decoder reads records one at a time from a stream.
type Decoder[T Element] struct {
	r       *bufio.Reader
	format  Format
	dim     int
	pending bool // first header consumed by Dim but not yet by Next
	offset  int64
	rows    int
	hdr     [headerSize]byte
	buf     []byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder[T Element](r io.Reader) *Decoder[T] {
	return &Decoder[T]{
		r:      bufio.NewReaderSize(r, 1<<20),
		format: formatOf[T](),
	}
}

// Dim returns the dimension declared by the first record, reading it if necessary.
func (d *Decoder[T]) Dim() (int, error) {
	if d.dim != 0 {
		return d.dim, nil
	}
	if _, err := d.header(); err != nil {
		return 0, err
	}
	d.pending = true
	return d.dim, nil
}

// Rows returns the number of records decoded so far.
func (d *Decoder[T]) Rows() int { return d.rows }

// Next decodes the next record payload into dst, which must hold at least Dim elements.
// It returns io.EOF after the last record.
func (d *Decoder[T]) Next(dst []T) error {
	if _, err := d.header(); err != nil {
		return err
	}
	if len(dst) < d.dim {
		return fmt.Errorf("vecfile: destination holds %d elements, need %d", len(dst), d.dim)
	}
	if _, err := io.ReadFull(d.r, d.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return d.errorf("record %d is truncated", d.rows)
		}
		return err
	}
	decodePayload(dst[:d.dim], d.buf)
	d.offset += int64(headerSize + len(d.buf))
	d.rows++
	return nil
}

func (d *Decoder[T]) header() (int, error) {
	if d.pending {
		d.pending = false
		return d.dim, nil
	}

	n, err := io.ReadFull(d.r, d.hdr[:])
	switch {
	case errors.Is(err, io.EOF):
		if d.rows == 0 {
			return 0, d.errorf("empty input")
		}
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, d.errorf("trailing %d bytes do not form a record header", n)
	case err != nil:
		return 0, err
	}

	dim := int(int32(binary.LittleEndian.Uint32(d.hdr[:])))
	if d.dim == 0 {
		if dim <= 0 {
			return 0, d.errorf("non-positive dimension %d", dim)
		}
		if dim > MaxDim {
			return 0, d.errorf("dimension %d exceeds %d", dim, MaxDim)
		}
		d.dim = dim
		d.buf = make([]byte, dim*d.format.ElemSize())
		return dim, nil
	}
	if dim != d.dim {
		return 0, d.errorf("record %d declares dimension %d, first record declared %d", d.rows, dim, d.dim)
	}
	return dim, nil
}

func (d *Decoder[T]) errorf(format string, args ...any) error {
	return &FormatError{Format: d.format, Offset: d.offset, Dim: d.dim, Reason: fmt.Sprintf(format, args...)}
}

func decodePayload[T Element](dst []T, src []byte) {
	switch dst := any(dst).(type) {
	case []float32:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case []int32:
		for i := range dst {
			dst[i] = int32(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case []uint8:
		copy(dst, src)
	}
}

// Read decodes every record from r into a Matrix.
func Read[T Element](r io.Reader, opts ...Option) (*Matrix[T], error) {
	return read[T](r, newOptions(opts))
}

// Decode decodes b, which may be a memory mapping; the result never aliases b.
func Decode[T Element](b []byte, opts ...Option) (*Matrix[T], error) {
	o := newOptions(opts)
	o.sizeHint = int64(len(b))
	return read[T](bytes.NewReader(b), o)
}

// ReadFvecs reads an fvecs stream into an N x D float32 matrix.
func ReadFvecs(r io.Reader) (*Matrix[float32], error) { return Read[float32](r) }

// ReadIvecs reads an ivecs stream into an N x D int32 matrix.
func ReadIvecs(r io.Reader) (*Matrix[int32], error) { return Read[int32](r) }

// ReadBvecs reads a bvecs stream into an N x D uint8 matrix.
func ReadBvecs(r io.Reader) (*Matrix[uint8], error) { return Read[uint8](r) }

// DecodeFvecs decodes an in-memory fvecs file.
func DecodeFvecs(b []byte) (*Matrix[float32], error) { return Decode[float32](b) }

// DecodeIvecs decodes an in-memory ivecs file.
func DecodeIvecs(b []byte) (*Matrix[int32], error) { return Decode[int32](b) }

// DecodeBvecs decodes an in-memory bvecs file.
func DecodeBvecs(b []byte) (*Matrix[uint8], error) { return Decode[uint8](b) }

func read[T Element](r io.Reader, o options) (*Matrix[T], error) {
	dec := NewDecoder[T](r)
	dim, err := dec.Dim()
	if err != nil {
		return nil, err
	}

	capRows := 0
	if o.sizeHint > 0 {
		record := int64(headerSize + dim*dec.format.ElemSize())
		if o.limit <= 0 && o.sizeHint%record != 0 {
			return nil, &FormatError{
				Format: dec.format,
				Dim:    dim,
				Reason: fmt.Sprintf("size %d is not a multiple of the %d-byte record", o.sizeHint, record),
			}
		}
		capRows = int(o.sizeHint / record)
	}
	switch {
	case o.limit > 0 && capRows > o.limit:
		capRows = o.limit
	case capRows == 0:
		capRows = streamRows
		if o.limit > 0 {
			capRows = min(capRows, o.limit)
		}
	}

	elem := int64(dec.format.ElemSize())
	reserve := func(elems int) error {
		if o.reserve == nil {
			return nil
		}
		if err := o.reserve(int64(elems) * elem); err != nil {
			return fmt.Errorf("vecfile: reserve %d bytes: %w", int64(elems)*elem, err)
		}
		return nil
	}

	reserved := capRows * dim
	if err := reserve(reserved); err != nil {
		return nil, err
	}
	data := make([]T, 0, reserved)
	var spill []T
	for o.limit <= 0 || dec.Rows() < o.limit {
		full := len(data)+dim > reserved
		row := spill
		if !full {
			row = data[len(data) : len(data)+dim]
		} else if row == nil {
			spill = make([]T, dim)
			row = spill
		}
		if err := dec.Next(row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if !full {
			data = data[:len(data)+dim]
			continue
		}

		grown := max(2*reserved, len(data)+dim)
		if o.limit > 0 {
			grown = min(grown, o.limit*dim)
		}
		if err := reserve(grown - reserved); err != nil {
			return nil, err
		}
		data = append(slices.Grow(data, grown-len(data)), row...)
		reserved = grown
	}

	return &Matrix[T]{Rows: dec.Rows(), Dim: dim, Data: data}, nil
}
