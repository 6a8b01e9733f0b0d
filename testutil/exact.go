package testutil

import (
	"sort"

	"github.com/hupe1980/annlab/distance"
	"github.com/hupe1980/annlab/vecfile"
)

// SearchResult represents a search result.
type SearchResult struct {
	ID       int64
	Distance float32
}

// ExactTopK returns the k nearest rows of base to query by squared L2,
// sorted by distance and then by id. Candidates are fully sorted, not heap-selected.
func ExactTopK(query []float32, base *vecfile.Matrix[float32], k int) []SearchResult {
	all := make([]SearchResult, base.Rows)
	for i := range base.Rows {
		all[i] = SearchResult{ID: int64(i), Distance: distance.SquaredL2(query, base.Row(i))}
	}

	sort.Slice(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].ID < all[b].ID
	})
	return all[:min(k, len(all))]
}

// BruteForceSearch returns the ids of the k nearest base rows for every query,
// padded with -1 when base holds fewer than k rows.
func BruteForceSearch(base, queries *vecfile.Matrix[float32], k int) [][]int64 {
	out := make([][]int64, queries.Rows)
	for i := range queries.Rows {
		row := make([]int64, k)
		for j := range row {
			row[j] = -1
		}
		for j, r := range ExactTopK(queries.Row(i), base, k) {
			row[j] = r.ID
		}
		out[i] = row
	}
	return out
}

// GroundTruth is BruteForceSearch in the ivecs layout of benchmark datasets.
func GroundTruth(base, queries *vecfile.Matrix[float32], k int) *vecfile.Matrix[int32] {
	ids := BruteForceSearch(base, queries, k)
	gt := vecfile.NewMatrix[int32](queries.Rows, k)
	for i, row := range ids {
		for j, id := range row {
			gt.Row(i)[j] = int32(id)
		}
	}
	return gt
}
