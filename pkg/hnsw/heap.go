package hnsw

import "container/heap"

// candidate pairs a distance with the node id it was computed against.
// Grounded on the teacher's pkg/hnsw/insert.go heapItem type, adapted to
// int64 ids.
type candidate struct {
	dist float32
	id   int64
}

// minHeap orders candidates with the smallest distance at the top; it is
// the frontier queue C in the beam-search algorithm.
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// maxHeap orders candidates with the largest distance at the top; it backs
// the bounded result set W in the beam-search algorithm so the worst
// member can be evicted in O(log ef).
type maxHeap []candidate

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (h maxHeap) top() candidate { return h[0] }

var _ heap.Interface = (*minHeap)(nil)
var _ heap.Interface = (*maxHeap)(nil)
