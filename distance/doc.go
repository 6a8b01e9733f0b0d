// Package distance provides the float32 distance kernels used by the
// reference index and the ground-truth helpers.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricDot: Negated inner product, so that smaller is closer
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
package distance
