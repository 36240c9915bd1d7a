package pathfinder

import "github.com/lintang-b-s/routechoice/pkg/routechoice/graph"

// heapNode is one entry of the d-ary min-heap keyed on tentative cost.
type heapNode struct {
	node graph.Index
	cost float64
}

// dHeap is a 4-ary min-heap over heapNode, with DecreaseKey support via
// a node->heap-position index. Adapted from the teacher's generic
// MinHeap[T] to a cost-keyed, fixed-arity heap so Dijkstra/A* don't pay
// for a bigger-than-needed priority queue abstraction.
const heapArity = 4

type dHeap struct {
	items []heapNode
	pos   []int32 // node -> index in items, -1 if absent
}

func newDHeap(nNodes int) *dHeap {
	pos := make([]int32, nNodes)
	for i := range pos {
		pos[i] = -1
	}
	return &dHeap{pos: pos}
}

func (h *dHeap) reset(touched []graph.Index) {
	h.items = h.items[:0]
	for _, n := range touched {
		h.pos[n] = -1
	}
}

func (h *dHeap) Len() int { return len(h.items) }

func (h *dHeap) Push(n graph.Index, cost float64) {
	if p := h.pos[n]; p >= 0 {
		h.decreaseKey(int(p), cost)
		return
	}
	h.items = append(h.items, heapNode{node: n, cost: cost})
	idx := len(h.items) - 1
	h.pos[n] = int32(idx)
	h.siftUp(idx)
}

func (h *dHeap) decreaseKey(idx int, cost float64) {
	if cost >= h.items[idx].cost {
		return
	}
	h.items[idx].cost = cost
	h.siftUp(idx)
}

func (h *dHeap) Pop() (graph.Index, float64) {
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.pos[h.items[0].node] = 0
	h.items = h.items[:last]
	h.pos[top.node] = -1
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top.node, top.cost
}

func (h *dHeap) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / heapArity
		if h.items[parent].cost <= h.items[idx].cost {
			break
		}
		h.swap(parent, idx)
		idx = parent
	}
}

func (h *dHeap) siftDown(idx int) {
	n := len(h.items)
	for {
		smallest := idx
		first := idx*heapArity + 1
		for c := first; c < first+heapArity && c < n; c++ {
			if h.items[c].cost < h.items[smallest].cost {
				smallest = c
			}
		}
		if smallest == idx {
			return
		}
		h.swap(idx, smallest)
		idx = smallest
	}
}

func (h *dHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.pos[h.items[i].node] = int32(i)
	h.pos[h.items[j].node] = int32(j)
}
