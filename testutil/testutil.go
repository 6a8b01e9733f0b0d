package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/annlab/vecfile"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// UniformMatrix generates a rows x dim matrix with values in range [0, 1).
func (r *RNG) UniformMatrix(rows, dim int) *vecfile.Matrix[float32] {
	m := vecfile.NewMatrix[float32](rows, dim)
	r.FillUniform(m.Data)
	return m
}

// GaussianMatrix generates a rows x dim matrix from a standard normal distribution.
func (r *RNG) GaussianMatrix(rows, dim int) *vecfile.Matrix[float32] {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := vecfile.NewMatrix[float32](rows, dim)
	for i := range m.Data {
		m.Data[i] = float32(r.rand.NormFloat64())
	}
	return m
}

// UnitMatrix generates L2-normalized rows (on the hypersphere).
func (r *RNG) UnitMatrix(rows, dim int) *vecfile.Matrix[float32] {
	m := r.GaussianMatrix(rows, dim)
	for i := range rows {
		vec := m.Row(i)
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm == 0 {
			norm = 1
		}
		inv := float32(1 / math.Sqrt(norm))
		for j := range vec {
			vec[j] *= inv
		}
	}
	return m
}

// ClusteredMatrix generates rows clustered around random unit centroids.
// Useful for testing ANN index performance on non-uniform data.
func (r *RNG) ClusteredMatrix(rows, dim, clusters int, spread float32) *vecfile.Matrix[float32] {
	centroids := r.UnitMatrix(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	m := vecfile.NewMatrix[float32](rows, dim)
	for i := range rows {
		centroid := centroids.Row(i % clusters)
		vec := m.Row(i)
		for j := range vec {
			vec[j] = centroid[j] + float32(r.rand.NormFloat64())*spread
		}
	}
	return m
}

// ByteMatrix generates a rows x dim matrix of random bytes (bvecs payload).
func (r *RNG) ByteMatrix(rows, dim int) *vecfile.Matrix[uint8] {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := vecfile.NewMatrix[uint8](rows, dim)
	r.rand.Read(m.Data)
	return m
}
