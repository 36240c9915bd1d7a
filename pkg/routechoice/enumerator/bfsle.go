package enumerator

import (
	"math"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/pathfinder"
	"github.com/lintang-b-s/routechoice/pkg/util"
)

// queueState is the state machine attached to each removed-set entry
// in the BFS-LE queue.
type queueState int

const (
	stateQueued queueState = iota
	stateExploring
	stateFilled
	stateExhausted
	stateMissLimit
)

type queueEntry struct {
	banned *LinkSet
	state  queueState
}

// BFSLE explores the graph-of-graphs: each queue entry is a distinct
// subgraph identified by the set of links banned (cost forced to +inf)
// from the base graph. Level 0 is the empty banned-set.
type BFSLE struct{}

func (BFSLE) Enumerate(g *graph.Graph, vecs *graph.Vectors, finder pathfinder.Finder, sc *pathfinder.Scratch, origin, destination graph.Index, params Params) (*RouteSet, error) {
	if err := params.Validate(BFSLE); err != nil {
		return nil, err
	}
	if origin == destination {
		return NewRouteSet(), nil
	}

	routes := NewRouteSet()
	visited := NewVisitedSets()
	rng := NewLCG(params.Seed)

	queue := []queueEntry{{banned: EmptyLinkSet(), state: stateQueued}}
	visited.Add(queue[0].banned)

	depth := 0
	for len(queue) > 0 {
		if params.MaxDepth > 0 && depth >= params.MaxDepth {
			break
		}
		if params.MaxRoutes > 0 && routes.Len() >= params.MaxRoutes {
			break
		}
		if params.MaxMisses > 0 && routes.Misses() >= params.MaxMisses {
			break
		}

		current := queue
		queue = nil

		for _, entry := range current {
			if params.MaxRoutes > 0 && routes.Len() >= params.MaxRoutes {
				break
			}
			if params.MaxMisses > 0 && routes.Misses() >= params.MaxMisses {
				break
			}
			entry.state = stateExploring

			vecs.ResetCost(g)
			entry.banned.ForEach(func(link graph.Index) {
				vecs.Cost[link] = math.Inf(1)
			})

			if !finder.ShortestPath(g, vecs, sc, origin, destination) {
				entry.state = stateExhausted
				continue
			}

			route := sc.Path(destination)
			isNew := routes.Add(route)
			if !isNew {
				entry.state = stateMissLimit
				continue
			}
			entry.state = stateFilled

			for _, link := range route {
				next := entry.banned.With(link)
				if next == entry.banned {
					continue
				}
				if visited.Contains(next) {
					continue
				}
				visited.Add(next)
				queue = append(queue, queueEntry{banned: next, state: stateQueued})
			}
		}

		if len(queue) > 0 {
			rng.Shuffle(len(queue), func(i, j int) {
				queue[i], queue[j] = queue[j], queue[i]
			})
		}
		depth++
	}

	if params.MaxRoutes > 0 {
		routes.Shuffle(rng)
		routes.Truncate(params.MaxRoutes)
	}
	util.AssertPanic(routes != nil, "bfsle: route set must never be nil")
	return routes, nil
}
