// Package pool provides object pools for allocation-free exhaustive search.
// Uses sync.Pool so scratch heaps are reused across queries and batches.
package pool

import (
	"sync"

	"github.com/hupe1980/annlab/internal/queue"
)

// SearchContext holds the scratch state of one search worker.
type SearchContext struct {
	Top   *queue.TopK
	Items []queue.Item
}

var searchContextPool = sync.Pool{
	New: func() any { return &SearchContext{} },
}

// Get returns an empty SearchContext whose heap keeps k items.
func Get(k int) *SearchContext {
	sc := searchContextPool.Get().(*SearchContext)
	if sc.Top == nil || sc.Top.K() != k {
		sc.Top = queue.NewTopK(k)
	} else {
		sc.Top.Reset()
	}
	if cap(sc.Items) < k {
		sc.Items = make([]queue.Item, 0, k)
	}
	sc.Items = sc.Items[:0]
	return sc
}

// Put returns sc to the pool. sc must not be used afterwards.
func Put(sc *SearchContext) {
	if sc == nil {
		return
	}
	searchContextPool.Put(sc)
}
