package vecfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Write encodes m with one dimension header per row.
func Write[T Element](w io.Writer, m *Matrix[T]) error {
	if err := m.validate(); err != nil {
		return err
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	buf := make([]byte, headerSize+m.Dim*elemSize[T]())
	binary.LittleEndian.PutUint32(buf, uint32(m.Dim))

	for i := range m.Rows {
		encodePayload(buf[headerSize:], m.Row(i))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode returns the encoded bytes of m.
func Encode[T Element](m *Matrix[T]) ([]byte, error) {
	var buf bytes.Buffer
	if m != nil {
		buf.Grow(m.Rows * (headerSize + m.Dim*elemSize[T]()))
	}
	if err := Write(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFvecs writes m in fvecs layout.
func WriteFvecs(w io.Writer, m *Matrix[float32]) error { return Write(w, m) }

// WriteIvecs writes m in ivecs layout.
func WriteIvecs(w io.Writer, m *Matrix[int32]) error { return Write(w, m) }

// WriteBvecs writes m in bvecs layout.
func WriteBvecs(w io.Writer, m *Matrix[uint8]) error { return Write(w, m) }

func encodePayload[T Element](dst []byte, src []T) {
	switch src := any(src).(type) {
	case []float32:
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
		}
	case []int32:
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(v))
		}
	case []uint8:
		copy(dst, src)
	}
}
