package pathfinder

import (
	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

// Finder runs a single-source, single-target shortest path search over
// a graph under the given per-thread vectors (cost possibly banned or
// penalised, head possibly centroid-blocked), writing the result into
// scratch. It reports whether target was reached.
type Finder interface {
	ShortestPath(g *graph.Graph, vecs *graph.Vectors, sc *Scratch, source, target graph.Index) bool
}

// Dijkstra is a label-setting shortest path search over a non-negative
// cost vector, using a 4-ary heap for the frontier. This is the default
// back-end for graphs without coordinates.
type Dijkstra struct{}

func (Dijkstra) ShortestPath(g *graph.Graph, vecs *graph.Vectors, sc *Scratch, source, target graph.Index) bool {
	sc.reset()

	sc.touch(source)
	sc.costSoFar[source] = 0
	sc.heap.Push(source, 0)

	for sc.heap.Len() > 0 {
		u, cost := sc.heap.Pop()
		if cost > sc.costSoFar[u] {
			continue // stale entry, already improved
		}
		if u == target {
			return true
		}

		start, end := g.ForwardStar(u)
		for link := start; link < end; link++ {
			v := vecs.Head[link]
			if v == g.DeadEnd() {
				continue
			}
			newCost := cost + vecs.Cost[link]
			sc.touch(v)
			if newCost < sc.costSoFar[v] {
				sc.costSoFar[v] = newCost
				sc.predecessor[v] = u
				sc.connector[v] = link
				sc.heap.Push(v, newCost)
			}
		}
	}

	_, reached := sc.CostTo(target)
	return reached
}
