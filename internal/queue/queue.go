// Package queue provides the bounded candidate heap used by exhaustive search.
package queue

// Item is a candidate neighbor.
type Item struct {
	ID       int64
	Distance float32
}

// worse reports whether a ranks after b: larger distance first, then larger id.
func worse(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.ID > b.ID
}

// TopK keeps the k best (smallest distance) items pushed so far.
// It is a max-heap whose root is the worst kept item. Not safe for concurrent use.
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a TopK with capacity k.
func NewTopK(k int) *TopK {
	return &TopK{k: k, items: make([]Item, 0, k)}
}

// K returns the capacity.
func (q *TopK) K() int { return q.k }

// Len returns the number of kept items.
func (q *TopK) Len() int { return len(q.items) }

// Worst returns the root, i.e. the item that the next better candidate evicts.
func (q *TopK) Worst() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Push offers it to the queue and reports whether it was kept.
func (q *TopK) Push(it Item) bool {
	if q.k <= 0 {
		return false
	}
	if len(q.items) < q.k {
		q.items = append(q.items, it)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if !worse(q.items[0], it) {
		return false
	}
	q.items[0] = it
	q.siftDown(0)
	return true
}

// Reset empties the queue, keeping its storage.
func (q *TopK) Reset() {
	q.items = q.items[:0]
}

// Drain appends the kept items to dst best first and empties the queue.
func (q *TopK) Drain(dst []Item) []Item {
	n := len(q.items)
	start := len(dst)
	for range n {
		dst = append(dst, Item{})
	}
	for i := n - 1; i >= 0; i-- {
		dst[start+i] = q.items[0]
		last := len(q.items) - 1
		q.items[0] = q.items[last]
		q.items = q.items[:last]
		if last > 0 {
			q.siftDown(0)
		}
	}
	return dst
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !worse(q.items[i], q.items[p]) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		top := l
		if r := l + 1; r < n && worse(q.items[r], q.items[l]) {
			top = r
		}
		if !worse(q.items[top], q.items[i]) {
			return
		}
		q.items[i], q.items[top] = q.items[top], q.items[i]
		i = top
	}
}
