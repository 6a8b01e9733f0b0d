package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/annlab/internal/queue"
)

func TestGet(t *testing.T) {
	sc := Get(3)
	assert.Equal(t, 3, sc.Top.K())
	assert.Zero(t, sc.Top.Len())
	assert.Empty(t, sc.Items)
	assert.GreaterOrEqual(t, cap(sc.Items), 3)

	sc.Top.Push(queue.Item{ID: 1, Distance: 1})
	sc.Items = append(sc.Items, queue.Item{ID: 1})
	Put(sc)

	// Whatever comes back, it is empty and sized for the request.
	for _, k := range []int{3, 5, 1} {
		sc := Get(k)
		assert.Equal(t, k, sc.Top.K())
		assert.Zero(t, sc.Top.Len())
		assert.Empty(t, sc.Items)
		Put(sc)
	}

	Put(nil)
}

func BenchmarkGetPut(b *testing.B) {
	for b.Loop() {
		Put(Get(10))
	}
}
