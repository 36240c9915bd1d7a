// Package linkloading implements the threaded aggregation of route
// probabilities x demand into total link loads, select-link loads, and
// select-link OD matrices.
package linkloading

import "github.com/lintang-b-s/routechoice/pkg/routechoice/graph"

// ANDSet is one clause of a select-link query: a route satisfies it
// only if it contains every link in the set.
type ANDSet []graph.Index

// Query is a named OR-of-ANDs select-link query: a route satisfies the
// query if it satisfies at least one of its AND-sets.
type Query struct {
	Name    string
	ANDSets []ANDSet
}

// linkToSets is a precomputed reverse index from link id to the AND-set
// indices that mention it, built once per query so evaluating a route
// against many queries doesn't re-scan every AND-set per link.
type compiledQuery struct {
	name       string
	setSizes   []int
	linkToSets map[graph.Index][]int
}

func compile(q Query) compiledQuery {
	cq := compiledQuery{
		name:       q.Name,
		setSizes:   make([]int, len(q.ANDSets)),
		linkToSets: make(map[graph.Index][]int),
	}
	for i, and := range q.ANDSets {
		cq.setSizes[i] = len(and)
		for _, link := range and {
			cq.linkToSets[link] = append(cq.linkToSets[link], i)
		}
	}
	return cq
}

// satisfies reports whether route matches the compiled query, counting
// down remaining AND-set sizes as links are seen and short-circuiting
// as soon as any AND-set is fully covered. Assumes each link appears at
// most once in route, matching the route-simplicity invariant.
func (cq compiledQuery) satisfies(route []graph.Index) bool {
	remaining := make([]int, len(cq.setSizes))
	copy(remaining, cq.setSizes)
	for _, n := range remaining {
		if n == 0 {
			return true // an empty AND-set trivially matches every route
		}
	}
	for _, link := range route {
		for _, setIdx := range cq.linkToSets[link] {
			remaining[setIdx]--
			if remaining[setIdx] == 0 {
				return true
			}
		}
	}
	return false
}
