package footprint

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/annlab/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobIndex serializes to a fixed number of bytes.
type blobIndex struct {
	size int
	err  error
}

func (b blobIndex) WriteTo(w io.Writer) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}
	n, err := w.Write(bytes.Repeat([]byte{0xAB}, b.size))
	return int64(n), err
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe left files behind")
}

func TestMeasure(t *testing.T) {
	dir := t.TempDir()
	probe := New(WithDir(dir))

	n, err := probe.Measure(blobIndex{size: 4096})
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)
	requireEmptyDir(t, dir)

	n, err = probe.Measure(blobIndex{})
	require.NoError(t, err)
	assert.Zero(t, n)
	requireEmptyDir(t, dir)
}

func TestMeasureIn(t *testing.T) {
	dir := t.TempDir()
	probe := New(WithDir(dir))

	mib, err := probe.MeasureIn(blobIndex{size: 1 << 20}, MiB)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mib)

	mb, err := probe.MeasureIn(blobIndex{size: 1 << 20}, MB)
	require.NoError(t, err)
	assert.InDelta(t, 1.048576, mb, 1e-9)

	b, err := probe.MeasureIn(blobIndex{size: 10}, Bytes)
	require.NoError(t, err)
	assert.Equal(t, 10.0, b)

	_, err = probe.MeasureIn(blobIndex{size: 10}, 0)
	assert.ErrorIs(t, err, ErrInvalidUnit)

	assert.Equal(t, 0.5, ToUnit(512*1024, MiB))
	assert.Equal(t, "MiB", MiB.String())
	requireEmptyDir(t, dir)
}

func TestMeasure_NilIndex(t *testing.T) {
	_, err := New().Measure(nil)
	assert.ErrorIs(t, err, ErrNilIndex)
}

func TestMeasure_SerializerError(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("serializer exploded")

	_, err := New(WithDir(dir)).Measure(blobIndex{err: boom})
	require.ErrorIs(t, err, boom)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
	assert.Equal(t, dir, filepath.Dir(ioErr.Path))
	requireEmptyDir(t, dir)
}

func TestMeasure_Faults(t *testing.T) {
	tests := []struct {
		name     string
		fault    fs.Fault
		wantOps  []string
		leftover bool
	}{
		{
			name:    "create",
			fault:   fs.Fault{FailAfterBytes: -1, FailOnCreate: true},
			wantOps: []string{"create"},
		},
		{
			name:    "write",
			fault:   fs.Fault{FailAfterBytes: 100},
			wantOps: []string{"write"},
		},
		{
			name:    "sync",
			fault:   fs.Fault{FailAfterBytes: -1, FailOnSync: true},
			wantOps: []string{"sync"},
		},
		{
			name:    "close",
			fault:   fs.Fault{FailAfterBytes: -1, FailOnClose: true},
			wantOps: []string{"close"},
		},
		{
			name:     "remove",
			fault:    fs.Fault{FailAfterBytes: -1, FailOnRemove: true},
			wantOps:  []string{"remove"},
			leftover: true,
		},
		{
			name:     "write and remove",
			fault:    fs.Fault{FailAfterBytes: 100, FailOnRemove: true},
			wantOps:  []string{"write", "remove"},
			leftover: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			faulty := fs.NewFaultyFS(nil)
			faulty.AddRule("annlab-", tt.fault)

			n, err := New(WithDir(dir), WithFileSystem(faulty)).Measure(blobIndex{size: 1000})
			require.Error(t, err)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, fs.ErrInjected)

			for _, op := range tt.wantOps {
				assert.Contains(t, err.Error(), "footprint: "+op+" ")
			}
			var ioErr *IOError
			require.ErrorAs(t, err, &ioErr)
			assert.Equal(t, tt.wantOps[0], ioErr.Op)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			if tt.leftover {
				assert.Len(t, entries, 1)
			} else {
				assert.Empty(t, entries)
			}
		})
	}
}

func TestMeasure_PathWriter(t *testing.T) {
	dir := t.TempDir()
	var seen string

	idx := PathWriterFunc(func(path string) error {
		seen = path
		return os.WriteFile(path, make([]byte, 12345), 0o600)
	})

	n, err := New(WithDir(dir)).Measure(idx)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), n)
	assert.Equal(t, dir, filepath.Dir(seen))
	requireEmptyDir(t, dir)

	failing := PathWriterFunc(func(string) error { return os.ErrPermission })
	_, err = New(WithDir(dir)).Measure(failing)
	assert.ErrorIs(t, err, os.ErrPermission)
	requireEmptyDir(t, dir)
}

func TestPathWriterFunc_WriteTo(t *testing.T) {
	idx := PathWriterFunc(func(path string) error {
		return os.WriteFile(path, []byte("faiss"), 0o600)
	})

	var buf bytes.Buffer
	n, err := idx.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "faiss", buf.String())
}

func TestMeasure_Concurrent(t *testing.T) {
	dir := t.TempDir()
	probe := New(WithDir(dir))

	const workers = 16
	var wg sync.WaitGroup
	sizes := make([]int64, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sizes[i], errs[i] = probe.Measure(blobIndex{size: 1000 * (i + 1)})
		}(i)
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(1000*(i+1)), sizes[i])
	}
	requireEmptyDir(t, dir)
}
