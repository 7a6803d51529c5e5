package calculator

import "container/heap"

// position is a participant with the absolute amount still to move.
// order is the participant's index in the input ledger and breaks ties.
type position struct {
	id        string
	remaining int64
	order     int
}

// positionHeap is a max-heap on remaining; equal amounts pop in input order.
// Creditors are stored by the absolute amount owed to them, so the same heap
// yields the largest creditor as well as the largest debtor.
type positionHeap []position

func (h positionHeap) Len() int { return len(h) }

func (h positionHeap) Less(i, j int) bool {
	if h[i].remaining != h[j].remaining {
		return h[i].remaining > h[j].remaining
	}
	return h[i].order < h[j].order
}

func (h positionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *positionHeap) Push(x any) { *h = append(*h, x.(position)) }

func (h *positionHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

func newPositionHeap(positions []position) *positionHeap {
	h := positionHeap(positions)
	heap.Init(&h)
	return &h
}

func (h *positionHeap) push(p position) { heap.Push(h, p) }

func (h *positionHeap) pop() position { return heap.Pop(h).(position) }
