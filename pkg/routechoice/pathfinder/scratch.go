package pathfinder

import (
	"math"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

const unreached = math.MaxFloat64

// Scratch is the per-thread working memory a path-finder call reads and
// writes: tentative cost, predecessor node, the link used to enter each
// node, and a reached-first buffer so resetting between calls only
// touches nodes actually reached by the previous call, not the whole
// graph.
type Scratch struct {
	costSoFar    []float64
	predecessor  []graph.Index
	connector    []graph.Index
	reachedFirst []graph.Index // nodes touched since the last reset, in touch order
	heap         *dHeap

	centroidTouched []graph.Index // links rewired by BlockCentroids this call
}

func NewScratch(g *graph.Graph) *Scratch {
	n := g.NumberOfNodes() + 1 // + dead end
	s := &Scratch{
		costSoFar:   make([]float64, n),
		predecessor: make([]graph.Index, n),
		connector:   make([]graph.Index, n),
		heap:        newDHeap(n),
	}
	for i := range s.costSoFar {
		s.costSoFar[i] = unreached
		s.predecessor[i] = graph.InvalidIndex
		s.connector[i] = graph.InvalidIndex
	}
	return s
}

// reset clears only the nodes touched by the previous call.
func (s *Scratch) reset() {
	for _, n := range s.reachedFirst {
		s.costSoFar[n] = unreached
		s.predecessor[n] = graph.InvalidIndex
		s.connector[n] = graph.InvalidIndex
	}
	s.heap.reset(s.reachedFirst)
	s.reachedFirst = s.reachedFirst[:0]
}

func (s *Scratch) touch(n graph.Index) {
	if s.costSoFar[n] == unreached {
		s.reachedFirst = append(s.reachedFirst, n)
	}
}

// CostTo reports the tentative cost to node n after a completed call,
// and whether n was reached at all.
func (s *Scratch) CostTo(n graph.Index) (float64, bool) {
	c := s.costSoFar[n]
	return c, c != unreached
}

// Path reconstructs the compact link sequence from source to target
// found by the last successful call, in travel order.
func (s *Scratch) Path(target graph.Index) []graph.Index {
	var links []graph.Index
	for cur := target; s.connector[cur] != graph.InvalidIndex; cur = s.predecessor[cur] {
		links = append(links, s.connector[cur])
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return links
}
