package mrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

func TestDemandQueue_FIFO(t *testing.T) {
	q := NewDemandQueue(0)
	for i := 1; i <= 3; i++ {
		q.Push(entities.DemandLine{ProductID: entities.ProductID(i)})
	}
	assert.Equal(t, 3, q.Len())

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, entities.ProductID(1), first.ProductID)

	q.Push(entities.DemandLine{ProductID: 4})

	var order []entities.ProductID
	for {
		line, ok := q.Pop()
		if !ok {
			break
		}
		order = append(order, line.ProductID)
	}
	assert.Equal(t, []entities.ProductID{2, 3, 4}, order)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 4, q.Enqueued())
}

func TestDemandQueue_CompactsConsumedPrefix(t *testing.T) {
	q := NewDemandQueue(0)
	const n = 5000
	for i := 0; i < n; i++ {
		q.Push(entities.DemandLine{Level: i})
	}

	for i := 0; i < n; i++ {
		line, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, line.Level)
		if i%3 == 0 {
			q.Push(entities.DemandLine{Level: n + i})
		}
	}
	assert.Equal(t, (n+2)/3, q.Len())

	line, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, n, line.Level)
}

func TestDemandPath_Chain(t *testing.T) {
	root := &demandPath{product: 1}
	mid := &demandPath{product: 2, parent: root}
	leaf := &demandPath{product: 3, parent: mid}

	assert.True(t, leaf.contains(1))
	assert.False(t, leaf.contains(4))
	assert.False(t, root.contains(2))
	assert.Equal(t, []entities.ProductID{1, 2, 3, 1}, leaf.chain(1))
}
