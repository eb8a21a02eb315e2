package route

import "github.com/kilianp07/evroute/core/model"

type queueItem struct {
	node model.LocationID
	dist float64
}

// distQueue is a min-heap of tentative distances. Equal distances are ordered
// by node id so that searches are deterministic.
type distQueue []queueItem

func (q distQueue) Len() int { return len(q) }

func (q distQueue) Less(i, j int) bool {
	if q[i].dist == q[j].dist {
		return q[i].node < q[j].node
	}
	return q[i].dist < q[j].dist
}

func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *distQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
