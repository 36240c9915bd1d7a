package pathfinder

import (
	"github.com/lintang-b-s/routechoice/pkg/geo"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

// AStar is the coordinate-aware back-end: it adds a haversine lower
// bound on remaining travel time to each node's priority, so the
// frontier expands toward the target instead of uniformly outward.
// The heuristic needs lat/lon (graph.HasCoordinates); on a graph
// without coordinates ShortestPath runs plain Dijkstra instead.
type AStar struct {
	// MaxSpeedMPS is an upper bound on travel speed over any link in the
	// graph; it keeps the heuristic admissible when cost is travel time.
	MaxSpeedMPS float64
}

func (a AStar) ShortestPath(g *graph.Graph, vecs *graph.Vectors, sc *Scratch, source, target graph.Index) bool {
	if !g.HasCoordinates() {
		return Dijkstra{}.ShortestPath(g, vecs, sc, source, target)
	}

	sc.reset()

	destLat, destLon := g.Lat(target), g.Lon(target)
	h := func(n graph.Index) float64 {
		if n == g.DeadEnd() {
			return 0
		}
		return geo.HaversineHeuristic(g.Lat(n), g.Lon(n), destLat, destLon, a.MaxSpeedMPS)
	}

	sc.touch(source)
	sc.costSoFar[source] = 0
	sc.heap.Push(source, h(source))

	for sc.heap.Len() > 0 {
		u, priority := sc.heap.Pop()
		if priority > sc.costSoFar[u]+h(u) {
			continue
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
			newCost := sc.costSoFar[u] + vecs.Cost[link]
			sc.touch(v)
			if newCost < sc.costSoFar[v] {
				sc.costSoFar[v] = newCost
				sc.predecessor[v] = u
				sc.connector[v] = link
				sc.heap.Push(v, newCost+h(v))
			}
		}
	}

	_, reached := sc.CostTo(target)
	return reached
}
