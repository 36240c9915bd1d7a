package enumerator

import (
	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/pathfinder"
)

// LinkPenalisationEnumerator runs a single mutable cost vector through
// repeated shortest-path calls, multiplying the cost of every link used
// by the previous route by Penalty before the next call, so the search
// is pushed toward less-used parts of the network.
type LinkPenalisationEnumerator struct{}

func (LinkPenalisationEnumerator) Enumerate(g *graph.Graph, vecs *graph.Vectors, finder pathfinder.Finder, sc *pathfinder.Scratch, origin, destination graph.Index, params Params) (*RouteSet, error) {
	if err := params.Validate(LinkPenalisation); err != nil {
		return nil, err
	}
	if origin == destination {
		return NewRouteSet(), nil
	}

	vecs.ResetCost(g)
	routes := NewRouteSet()

	depth := 0
	consecutiveMisses := 0
	for {
		if params.MaxDepth > 0 && depth >= params.MaxDepth {
			break
		}
		if params.MaxRoutes > 0 && routes.Len() >= params.MaxRoutes {
			break
		}
		if params.MaxMisses > 0 && consecutiveMisses >= params.MaxMisses {
			break
		}

		if !finder.ShortestPath(g, vecs, sc, origin, destination) {
			break
		}

		route := sc.Path(destination)
		if routes.Add(route) {
			consecutiveMisses = 0
		} else {
			consecutiveMisses++
		}

		for _, link := range route {
			vecs.Cost[link] *= params.Penalty
		}
		depth++
	}

	if params.MaxRoutes > 0 {
		routes.Truncate(params.MaxRoutes)
	}
	return routes, nil
}
