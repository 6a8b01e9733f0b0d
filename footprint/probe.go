package footprint

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/annlab/internal/fs"
)

// TempPattern is the CreateTemp pattern of probe files.
const TempPattern = "annlab-*.index"

// Unit is a divisor applied by MeasureIn.
type Unit int64

const (
	// Bytes leaves the size unchanged.
	Bytes Unit = 1
	// MiB is 1,048,576 bytes.
	MiB Unit = 1 << 20
	// MB is 1,000,000 bytes.
	MB Unit = 1_000_000
)

func (u Unit) String() string {
	switch u {
	case Bytes:
		return "B"
	case MiB:
		return "MiB"
	case MB:
		return "MB"
	default:
		return fmt.Sprintf("unit(%d)", int64(u))
	}
}

// PathWriter is implemented by indexes that serialize to a file path.
// The probe hands such indexes the temp path directly.
type PathWriter interface {
	WriteToPath(path string) error
}

// PathWriterFunc adapts a path-only serializer, such as write_index(index, path),
// to io.WriterTo and PathWriter.
type PathWriterFunc func(path string) error

// WriteToPath calls f(path).
func (f PathWriterFunc) WriteToPath(path string) error { return f(path) }

// WriteTo serializes through a private temp file and copies it to w.
func (f PathWriterFunc) WriteTo(w io.Writer) (int64, error) {
	tmp, err := os.CreateTemp("", TempPattern)
	if err != nil {
		return 0, err
	}
	path := tmp.Name()
	defer os.Remove(path)

	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := f(path); err != nil {
		return 0, err
	}

	src, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return io.Copy(w, src)
}

// Option configures a Probe.
type Option func(*Probe)

// WithFileSystem sets the file system temp files are created on.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(p *Probe) { p.fs = fsys }
}

// WithDir sets the directory for temp files. Empty means os.TempDir().
func WithDir(dir string) Option {
	return func(p *Probe) { p.dir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Probe) { p.logger = l }
}

// Probe measures serialized index sizes. It holds no per-call state and is
// safe for concurrent use.
type Probe struct {
	fs     fs.FileSystem
	dir    string
	logger *slog.Logger
}

// New creates a Probe.
func New(opts ...Option) *Probe {
	p := &Probe{fs: fs.Default}
	for _, opt := range opts {
		opt(p)
	}
	if p.fs == nil {
		p.fs = fs.Default
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Measure serializes idx to a fresh temp file and returns its size in bytes.
// The temp file is removed whether or not serialization succeeds.
func (p *Probe) Measure(idx io.WriterTo) (size int64, err error) {
	if idx == nil {
		return 0, ErrNilIndex
	}

	dir := p.dir
	if dir == "" {
		dir = os.TempDir()
	}

	f, err := p.fs.CreateTemp(dir, TempPattern)
	if err != nil {
		return 0, &IOError{Op: "create", Path: filepath.Join(dir, TempPattern), Err: err}
	}
	path := f.Name()
	open := true

	defer func() {
		var cleanup []error
		if open {
			if cerr := f.Close(); cerr != nil {
				cleanup = append(cleanup, &IOError{Op: "close", Path: path, Err: cerr})
			}
		}
		if rerr := p.fs.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			cleanup = append(cleanup, &IOError{Op: "remove", Path: path, Err: rerr})
		}
		if len(cleanup) > 0 {
			err = errors.Join(append([]error{err}, cleanup...)...)
			size = 0
		}
		if err != nil {
			p.logger.Warn("footprint probe failed", "path", path, "error", err)
		}
	}()

	if pw, ok := idx.(PathWriter); ok {
		open = false
		if err := f.Close(); err != nil {
			return 0, &IOError{Op: "close", Path: path, Err: err}
		}
		if err := pw.WriteToPath(path); err != nil {
			return 0, &IOError{Op: "write", Path: path, Err: err}
		}
	} else {
		if _, err := idx.WriteTo(f); err != nil {
			return 0, &IOError{Op: "write", Path: path, Err: err}
		}
		if err := f.Sync(); err != nil {
			return 0, &IOError{Op: "sync", Path: path, Err: err}
		}
	}

	info, err := p.fs.Stat(path)
	if err != nil {
		return 0, &IOError{Op: "stat", Path: path, Err: err}
	}

	if open {
		open = false
		if err := f.Close(); err != nil {
			return 0, &IOError{Op: "close", Path: path, Err: err}
		}
	}

	p.logger.Debug("footprint measured", "path", path, "bytes", info.Size())
	return info.Size(), nil
}

// MeasureIn is Measure scaled by unit.
func (p *Probe) MeasureIn(idx io.WriterTo, unit Unit) (float64, error) {
	if unit <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidUnit, int64(unit))
	}
	n, err := p.Measure(idx)
	if err != nil {
		return 0, err
	}
	return float64(n) / float64(unit), nil
}

// ToUnit converts a byte count to unit.
func ToUnit(n int64, unit Unit) float64 {
	return float64(n) / float64(unit)
}
