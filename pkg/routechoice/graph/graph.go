// Package graph implements the read-only Compressed Graph Adapter: a
// forward-star indexed, directed multigraph over compact link/node ids,
// with a 1:n compact-to-network link expansion and optional centroid
// blocking support for the path finder.
package graph

import (
	"github.com/lintang-b-s/routechoice/pkg/util"
)

// Index is a compact node or link id.
type Index uint32

const InvalidIndex Index = ^Index(0)

// Vectors holds the mutable per-thread cost and head arrays a path
// finder call reads. Route enumerators mutate Cost (banning, penalty
// multipliers) and the orchestrator mutates Head (centroid blocking)
// between calls; Graph itself never changes.
type Vectors struct {
	Cost []float64
	Head []Index
}

// NewVectors returns a fresh, unblocked/unbanned copy of the graph's
// base cost and head arrays, one entry per compact link.
func NewVectors(g *Graph) *Vectors {
	cost := make([]float64, len(g.cost))
	copy(cost, g.cost)
	head := make([]Index, len(g.head))
	copy(head, g.head)
	return &Vectors{Cost: cost, Head: head}
}

// ResetCost copies the graph's base cost back into v.Cost, undoing any
// banning or penalisation applied by a route enumerator.
func (v *Vectors) ResetCost(g *Graph) {
	copy(v.Cost, g.cost)
}

// ResetHead copies the graph's base head back into v.Head, undoing any
// centroid-blocking rewire.
func (v *Vectors) ResetHead(g *Graph) {
	copy(v.Head, g.head)
}

type linkRange struct {
	start, end Index
}

// Graph is the compact, read-only network view the rest of the engine
// operates over. It is safe for concurrent reads: every path-finding
// call that needs to mutate cost or head does so on its own Vectors.
type Graph struct {
	nNodes int
	// deadEnd is one past the last real node; it has no outgoing links
	// and exists so centroid blocking can redirect a link's head there
	// without a nil/negative sentinel.
	deadEnd Index

	cost []float64 // len nLinks
	head []Index   // len nLinks, link -> head node

	forwardStart []Index // len nNodes+2 (incl. dead end), CSR offsets into link-id space

	// incoming[node] lists compact link ids whose head is node, precomputed
	// once so centroid blocking doesn't need to scan every link per OD.
	incomingStart []Index
	incoming      []Index

	compressed []linkRange // len nLinks, range into networkLinkIDs
	networkIDs []uint32

	nodeToIndex map[int64]Index

	lat, lon    []float64 // len nNodes if present
	hasLatLon   bool
	nZones      int
	blockCFlows bool
}

// Builder accumulates edges before Build() lays them out in forward-star
// order, exactly the way the teacher's graph importer accumulates edges
// per tail before flattening into a CSR array.
type Builder struct {
	nNodes     int
	nZones     int
	edges      []builderEdge
	networkIDs [][]uint32 // per edge, expanded network link ids
	nodeToIdx  map[int64]Index
	lat, lon   []float64
}

type builderEdge struct {
	tail, head Index
	cost       float64
}

func NewBuilder(nNodes, nZones int) *Builder {
	return &Builder{
		nNodes:    nNodes,
		nZones:    nZones,
		nodeToIdx: make(map[int64]Index),
	}
}

func (b *Builder) SetExternalNode(externalID int64, compactIndex Index) {
	b.nodeToIdx[externalID] = compactIndex
}

func (b *Builder) SetCoordinates(lat, lon []float64) {
	util.AssertPanic(len(lat) == b.nNodes && len(lon) == b.nNodes, "graph: coordinates must cover every node")
	b.lat, b.lon = lat, lon
}

// AddLink appends a directed compact link tail->head with the given
// cost, expanding to the given original network link ids in path order.
func (b *Builder) AddLink(tail, head Index, cost float64, networkLinkIDs []uint32) Index {
	util.AssertPanic(cost >= 0, "graph: link cost must be non-negative")
	id := Index(len(b.edges))
	b.edges = append(b.edges, builderEdge{tail: tail, head: head, cost: cost})
	b.networkIDs = append(b.networkIDs, networkLinkIDs)
	return id
}

// Build lays the accumulated edges out in forward-star order (grouped by
// tail, ascending) and returns the immutable compact Graph.
func (b *Builder) Build() *Graph {
	n := b.nNodes
	deadEnd := Index(n)

	byTail := make([][]int, n)
	for i, e := range b.edges {
		byTail[e.tail] = append(byTail[e.tail], i)
	}

	nLinks := len(b.edges)
	cost := make([]float64, nLinks)
	head := make([]Index, nLinks)
	compressed := make([]linkRange, nLinks)
	var networkIDs []uint32
	forwardStart := make([]Index, n+2)

	pos := 0
	for u := 0; u < n; u++ {
		forwardStart[u] = Index(pos)
		for _, origIdx := range byTail[u] {
			e := b.edges[origIdx]
			cost[pos] = e.cost
			head[pos] = e.head
			start := Index(len(networkIDs))
			networkIDs = append(networkIDs, b.networkIDs[origIdx]...)
			compressed[pos] = linkRange{start: start, end: Index(len(networkIDs))}
			pos++
		}
	}
	forwardStart[n] = Index(pos)
	forwardStart[n+1] = Index(pos) // dead end: no outgoing links

	incomingStart := make([]Index, n+2)
	counts := make([]int, n+1)
	for _, h := range head {
		counts[h]++
	}
	acc := 0
	for u := 0; u <= n; u++ {
		incomingStart[u] = Index(acc)
		acc += counts[u]
	}
	incomingStart[n+1] = Index(acc)
	incoming := make([]Index, acc)
	cursor := make([]int, n+1)
	copy(cursor, toInts(incomingStart[:n+1]))
	for linkID, h := range head {
		incoming[cursor[h]] = Index(linkID)
		cursor[h]++
	}

	hasLatLon := b.lat != nil
	lat, lon := b.lat, b.lon
	if !hasLatLon {
		lat, lon = nil, nil
	}

	return &Graph{
		nNodes:        n,
		deadEnd:       deadEnd,
		cost:          cost,
		head:          head,
		forwardStart:  forwardStart,
		incomingStart: incomingStart,
		incoming:      incoming,
		compressed:    compressed,
		networkIDs:    networkIDs,
		nodeToIndex:   b.nodeToIdx,
		lat:           lat,
		lon:           lon,
		hasLatLon:     hasLatLon,
		nZones:        b.nZones,
	}
}

func toInts(idx []Index) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = int(v)
	}
	return out
}

func (g *Graph) NumberOfNodes() int          { return g.nNodes }
func (g *Graph) NumberOfLinks() int          { return len(g.cost) }
func (g *Graph) NumberOfNetworkLinks() int   { return len(g.networkIDs) }
func (g *Graph) NumZones() int               { return g.nZones }
func (g *Graph) DeadEnd() Index              { return g.deadEnd }

// SetBlockCentroidFlows toggles whether the orchestrator applies
// centroid blocking before each path-finding call.
func (g *Graph) SetBlockCentroidFlows(v bool) { g.blockCFlows = v }
func (g *Graph) BlockCentroidFlows() bool     { return g.blockCFlows }

func (g *Graph) HasCoordinates() bool { return g.hasLatLon }

func (g *Graph) Lat(node Index) float64 {
	util.AssertPanic(g.hasLatLon, "graph: no coordinates loaded")
	g.assertNode(node)
	return g.lat[node]
}

func (g *Graph) Lon(node Index) float64 {
	util.AssertPanic(g.hasLatLon, "graph: no coordinates loaded")
	g.assertNode(node)
	return g.lon[node]
}

// ToCompactNode resolves an external node id to its compact index.
// Absent ids report ok == false (the "-1" sentinel of spec.md §3).
func (g *Graph) ToCompactNode(externalID int64) (Index, bool) {
	idx, ok := g.nodeToIndex[externalID]
	return idx, ok
}

func (g *Graph) assertNode(u Index) {
	util.AssertPanic(int(u) < g.nNodes, "graph: node index out of range")
}

func (g *Graph) assertLink(e Index) {
	util.AssertPanic(int(e) < len(g.cost), "graph: link index out of range")
}

// Cost returns the base (unmodified) cost of a compact link.
func (g *Graph) Cost(link Index) float64 {
	g.assertLink(link)
	return g.cost[link]
}

// Head returns the base (unmodified) head node of a compact link.
func (g *Graph) Head(link Index) Index {
	g.assertLink(link)
	return g.head[link]
}

// ForwardStar returns the [start,end) range of compact link ids leaving
// node u; node may be the dead-end sentinel, in which case the range is
// empty.
func (g *Graph) ForwardStar(u Index) (Index, Index) {
	util.AssertPanic(int(u) <= g.nNodes, "graph: node index out of range")
	return g.forwardStart[u], g.forwardStart[u+1]
}

// ForOutLinksOf iterates over every compact link leaving u under the
// caller-supplied head vector (so centroid-blocked calls see the
// rewired heads without touching the shared graph).
func (g *Graph) ForOutLinksOf(u Index, headVec []Index, handle func(link, head Index)) {
	start, end := g.ForwardStar(u)
	for e := start; e < end; e++ {
		handle(e, headVec[e])
	}
}

// IncomingLinks returns the compact link ids whose (unblocked) head is
// node u, used only by centroid blocking to find edges that terminate
// at a centroid.
func (g *Graph) IncomingLinks(u Index) []Index {
	util.AssertPanic(int(u) <= g.nNodes, "graph: node index out of range")
	return g.incoming[g.incomingStart[u]:g.incomingStart[u+1]]
}

// ExpandToNetwork returns the original network link ids a compact link
// represents, in path order.
func (g *Graph) ExpandToNetwork(link Index) []uint32 {
	g.assertLink(link)
	r := g.compressed[link]
	return g.networkIDs[r.start:r.end]
}

// ExpandToNetworkOrdinals returns the internal 0..NumberOfNetworkLinks-1
// positions a compact link expands to, in path order. Dense
// link-loading vectors are indexed by this ordinal, not by the network
// link's external id, since external ids need not be contiguous;
// NetworkLinkIDs translates ordinal position back to the external id.
func (g *Graph) ExpandToNetworkOrdinals(link Index) []int {
	g.assertLink(link)
	r := g.compressed[link]
	out := make([]int, 0, int(r.end-r.start))
	for i := int(r.start); i < int(r.end); i++ {
		out = append(out, i)
	}
	return out
}

// NetworkLinkIDs returns the external network link id at each ordinal
// position, i.e. the array a dense load vector's index should be
// translated through to report results in the caller's id space.
func (g *Graph) NetworkLinkIDs() []uint32 {
	return g.networkIDs
}

// BlockCentroids rewires headVec, for the duration of a single
// path-finding call, so that no link can enter or leave a zone
// centroid other than origin/destination. Reversed by UnblockCentroids
// using the same touched list.
func (g *Graph) BlockCentroids(headVec []Index, origin, destination Index, touched *[]Index) {
	if !g.blockCFlows || g.nZones == 0 {
		return
	}
	for c := Index(0); int(c) < g.nZones; c++ {
		if c == origin || c == destination {
			continue
		}
		start, end := g.ForwardStar(c)
		for link := start; link < end; link++ {
			if headVec[link] != g.deadEnd {
				headVec[link] = g.deadEnd
				*touched = append(*touched, link)
			}
		}
		for _, link := range g.IncomingLinks(c) {
			if headVec[link] != g.deadEnd {
				headVec[link] = g.deadEnd
				*touched = append(*touched, link)
			}
		}
	}
}

// UnblockCentroids restores headVec entries touched by BlockCentroids.
func (g *Graph) UnblockCentroids(headVec []Index, touched []Index) {
	for _, link := range touched {
		headVec[link] = g.head[link]
	}
}
