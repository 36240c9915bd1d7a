package enumerator

import (
	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/pathfinder"
	"github.com/lintang-b-s/routechoice/pkg/util"
)

// Params bundles the arguments common to both enumeration strategies.
// Validation is enforced by the orchestrator at the batch boundary,
// before any parallel work starts; Validate is exported so tests and
// the orchestrator share one rule set.
type Params struct {
	MaxRoutes int
	MaxDepth  int
	MaxMisses int
	Penalty   float64
	Seed      uint64
}

// Strategy names the two enumeration algorithms, used only to select
// which validation rules on Penalty apply.
type Strategy int

const (
	BFSLE Strategy = iota
	LinkPenalisation
)

// Validate applies the pre-flight rules of the error handling design:
// at least one of MaxRoutes/MaxDepth must be positive, and Penalty is
// constrained per strategy.
func (p Params) Validate(strategy Strategy) error {
	if p.MaxRoutes <= 0 && p.MaxDepth <= 0 {
		return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "max_routes and max_depth are both zero")
	}
	switch strategy {
	case LinkPenalisation:
		if p.Penalty <= 1.0 {
			return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "link-penalisation requires penalty > 1.0, got %f", p.Penalty)
		}
	case BFSLE:
		// The source allows an optional penalisation overlay on top of
		// BFS-LE, but combining the two is disallowed here: it lets an
		// earlier depth's choices bias a later depth's costs in a way
		// that is hard to reason about together with link elimination.
		if p.Penalty != 1.0 {
			return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "bfs-le requires penalty == 1.0, got %f", p.Penalty)
		}
	}
	return nil
}

// Enumerator is the contract both BFS-LE and Link-Penalisation
// implement. A single OD where origin and destination coincide returns
// an empty, non-error RouteSet. Origin/destination validity is the
// caller's responsibility (the compact graph doesn't know about
// "external" ids).
type Enumerator interface {
	Enumerate(g *graph.Graph, vecs *graph.Vectors, finder pathfinder.Finder, sc *pathfinder.Scratch, origin, destination graph.Index, params Params) (*RouteSet, error)
}

// routeHash is an order-sensitive FNV-1a style hash over the ordered
// link-id sequence, used to key the dedup set. Sequence order matters
// here, unlike LinkSet's hash.
func routeHash(route []graph.Index) uint64 {
	var h uint64 = 14695981039346656037
	for _, link := range route {
		h ^= uint64(link)
		h *= 1099511628211
	}
	return h
}

func routesEqual(a, b []graph.Index) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RouteSet is the deduplicated, order-sensitive collection of routes
// produced for a single OD by either enumeration strategy.
type RouteSet struct {
	routes  [][]graph.Index
	buckets map[uint64][]int
	misses  int
}

func NewRouteSet() *RouteSet {
	return &RouteSet{buckets: make(map[uint64][]int)}
}

// Add inserts route if not already present, reporting whether it was
// new. A duplicate insertion counts as a miss for max_misses tracking.
func (rs *RouteSet) Add(route []graph.Index) bool {
	h := routeHash(route)
	for _, idx := range rs.buckets[h] {
		if routesEqual(rs.routes[idx], route) {
			rs.misses++
			return false
		}
	}
	idx := len(rs.routes)
	rs.routes = append(rs.routes, route)
	rs.buckets[h] = append(rs.buckets[h], idx)
	return true
}

func (rs *RouteSet) Len() int { return len(rs.routes) }

func (rs *RouteSet) Misses() int { return rs.misses }

func (rs *RouteSet) Routes() [][]graph.Index { return rs.routes }

// Shuffle reorders the accepted routes with a seeded LCG so callers
// that truncate to max_routes don't systematically favor
// earlier-discovered routes.
func (rs *RouteSet) Shuffle(rng *LCG) {
	rng.Shuffle(len(rs.routes), func(i, j int) {
		rs.routes[i], rs.routes[j] = rs.routes[j], rs.routes[i]
	})
}

// Truncate drops routes beyond n, in place.
func (rs *RouteSet) Truncate(n int) {
	if n >= 0 && n < len(rs.routes) {
		rs.routes = rs.routes[:n]
	}
}
