package mrp

import (
	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// demandPath is the ancestor chain of a demand line, newest first. Lines
// share the tail of their parent's chain.
type demandPath struct {
	product entities.ProductID
	parent  *demandPath
}

func (p *demandPath) contains(id entities.ProductID) bool {
	for n := p; n != nil; n = n.parent {
		if n.product == id {
			return true
		}
	}
	return false
}

// chain returns the products from the root down to p, followed by next
func (p *demandPath) chain(next entities.ProductID) []entities.ProductID {
	var reversed []entities.ProductID
	for n := p; n != nil; n = n.parent {
		reversed = append(reversed, n.product)
	}

	out := make([]entities.ProductID, 0, len(reversed)+1)
	for i := len(reversed) - 1; i >= 0; i-- {
		out = append(out, reversed[i])
	}
	return append(out, next)
}

type queuedDemand struct {
	line entities.DemandLine
	path *demandPath
}

// DemandQueue is the FIFO worklist of one explosion pass. Every pushed line
// is popped exactly once.
type DemandQueue struct {
	items    []queuedDemand
	head     int
	enqueued int
}

// NewDemandQueue creates a queue with room for capacity lines
func NewDemandQueue(capacity int) *DemandQueue {
	return &DemandQueue{items: make([]queuedDemand, 0, capacity)}
}

// Push appends an independent demand line
func (q *DemandQueue) Push(line entities.DemandLine) {
	q.push(line, nil)
}

// Pop removes the oldest line
func (q *DemandQueue) Pop() (entities.DemandLine, bool) {
	item, ok := q.pop()
	return item.line, ok
}

// Len returns the number of lines waiting
func (q *DemandQueue) Len() int {
	return len(q.items) - q.head
}

// Enqueued returns the number of lines pushed since creation
func (q *DemandQueue) Enqueued() int {
	return q.enqueued
}

func (q *DemandQueue) push(line entities.DemandLine, parent *demandPath) {
	q.items = append(q.items, queuedDemand{
		line: line,
		path: &demandPath{product: line.ProductID, parent: parent},
	})
	q.enqueued++
}

func (q *DemandQueue) pop() (queuedDemand, bool) {
	if q.head >= len(q.items) {
		return queuedDemand{}, false
	}

	item := q.items[q.head]
	q.items[q.head] = queuedDemand{}
	q.head++

	// reclaim the consumed prefix once it dominates the backing array
	if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return item, true
}
