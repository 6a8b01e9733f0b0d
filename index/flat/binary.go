package flat

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/annlab/distance"
	"github.com/hupe1980/annlab/internal/compress"
	"github.com/hupe1980/annlab/internal/conv"
	"github.com/hupe1980/annlab/vecfile"
)

// Binary layout, all little-endian:
//
//	magic "ANNF" | version u16 | metric u8 | compression u8 | dim u32 | count u64
//	count*dim float32, compressed as a whole when compression != none
const (
	magic         = "ANNF"
	formatVersion = 1
	headerSize    = 20
	chunkFloats   = 16 << 10
)

// ErrInvalidFormat is returned by ReadFrom for input that is not a flat index.
var ErrInvalidFormat = errors.New("flat: invalid index data")

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// WriteTo writes the Flat index to a writer in binary format.
//
// It matches the io.WriterTo interface, which is what the footprint probe measures.
func (f *Flat) WriteTo(w io.Writer) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cw := &countingWriter{w: w}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic)
	binary.LittleEndian.PutUint16(hdr[4:6], formatVersion)
	hdr[6] = byte(f.opts.Metric)
	hdr[7] = byte(f.opts.Compression)
	dim, err := conv.IntToUint32(f.opts.Dimension)
	if err != nil {
		return 0, err
	}
	count, err := conv.IntToUint64(len(f.data) / f.opts.Dimension)
	if err != nil {
		return 0, err
	}
	binary.LittleEndian.PutUint32(hdr[8:12], dim)
	binary.LittleEndian.PutUint64(hdr[12:20], count)
	if _, err := cw.Write(hdr[:]); err != nil {
		return cw.n, err
	}

	zw, err := compress.NewWriter(cw, f.opts.Compression)
	if err != nil {
		return cw.n, err
	}
	bw := bufio.NewWriterSize(zw, 1<<20)

	buf := make([]byte, 4*min(chunkFloats, len(f.data)))
	for off := 0; off < len(f.data); off += chunkFloats {
		chunk := f.data[off:min(off+chunkFloats, len(f.data))]
		for i, v := range chunk {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		if _, err := bw.Write(buf[:4*len(chunk)]); err != nil {
			return cw.n, err
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom replaces the content of f with an index read from r.
// Options stored in the data (dimension, metric, compression) take effect;
// Workers is kept.
func (f *Flat) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}

	var hdr [headerSize]byte
	if _, err := io.ReadFull(cr, hdr[:]); err != nil {
		return cr.n, fmt.Errorf("%w: header: %v", ErrInvalidFormat, err)
	}
	if string(hdr[0:4]) != magic {
		return cr.n, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, hdr[0:4])
	}
	if v := binary.LittleEndian.Uint16(hdr[4:6]); v != formatVersion {
		return cr.n, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, v)
	}

	metric := distance.Metric(hdr[6])
	dist, err := distance.Provider(metric)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	comp := compress.Type(hdr[7])
	dim := int(binary.LittleEndian.Uint32(hdr[8:12]))
	count := binary.LittleEndian.Uint64(hdr[12:20])
	if dim <= 0 || dim > vecfile.MaxDim {
		return cr.n, fmt.Errorf("%w: dimension %d", ErrInvalidFormat, dim)
	}
	if count > math.MaxInt32 {
		return cr.n, fmt.Errorf("%w: vector count %d", ErrInvalidFormat, count)
	}

	zr, err := compress.NewReader(cr, comp)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer zr.Close()
	br := bufio.NewReaderSize(zr, 1<<20)

	// Grow as data arrives so a corrupt count cannot force a huge allocation.
	rows, err := conv.Uint64ToInt(count)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	total, err := conv.MulInt(rows, dim)
	if err != nil {
		return cr.n, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	data := make([]float32, 0, min(total, 1<<20))
	buf := make([]byte, 4*min(chunkFloats, total))
	for len(data) < total {
		b := buf[:4*min(chunkFloats, total-len(data))]
		if _, err := io.ReadFull(br, b); err != nil {
			return cr.n, fmt.Errorf("%w: vectors truncated: %v", ErrInvalidFormat, err)
		}
		for i := 0; i < len(b); i += 4 {
			data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(b[i:])))
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = data
	f.dist = dist
	f.opts.Dimension = dim
	f.opts.Metric = metric
	f.opts.Compression = comp
	if f.opts.Workers <= 0 {
		f.opts.Workers = defaultWorkers()
	}
	return cr.n, nil
}

// Load reads an index written by WriteTo.
func Load(r io.Reader, optFns ...func(o *Options)) (*Flat, error) {
	f := &Flat{opts: DefaultOptions}
	for _, fn := range optFns {
		fn(&f.opts)
	}
	if _, err := f.ReadFrom(r); err != nil {
		return nil, err
	}
	return f, nil
}
