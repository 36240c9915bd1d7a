package enumerator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/pathfinder"
)

func triangle() *graph.Graph {
	b := graph.NewBuilder(3, 0)
	b.AddLink(0, 1, 1, []uint32{100})
	b.AddLink(1, 2, 1, []uint32{101})
	b.AddLink(0, 2, 3, []uint32{102})
	return b.Build()
}

// scenario 1: triangle graph, BFS-LE, max_routes=2.
func TestBFSLETriangleScenario(t *testing.T) {
	g := triangle()
	vecs := graph.NewVectors(g)
	sc := pathfinder.NewScratch(g)

	rs, err := BFSLE{}.Enumerate(g, vecs, pathfinder.Dijkstra{}, sc, 0, 2, Params{MaxRoutes: 2, MaxDepth: 10, MaxMisses: 100, Penalty: 1.0})
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())

	routes := rs.Routes()
	found2Hop, found1Hop := false, false
	for _, r := range routes {
		switch len(r) {
		case 2:
			found2Hop = true
		case 1:
			found1Hop = true
		}
	}
	require.True(t, found2Hop)
	require.True(t, found1Hop)
}

// scenario 3: diamond graph, BFS-LE returns two equal-cost routes.
func TestBFSLEDiamondScenario(t *testing.T) {
	b := graph.NewBuilder(4, 0)
	b.AddLink(0, 1, 1, []uint32{1})
	b.AddLink(0, 2, 1, []uint32{2})
	b.AddLink(1, 3, 1, []uint32{3})
	b.AddLink(2, 3, 1, []uint32{4})
	g := b.Build()

	vecs := graph.NewVectors(g)
	sc := pathfinder.NewScratch(g)

	rs, err := BFSLE{}.Enumerate(g, vecs, pathfinder.Dijkstra{}, sc, 0, 3, Params{MaxRoutes: 10, MaxDepth: 10, MaxMisses: 100, Penalty: 1.0})
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())
	for _, r := range rs.Routes() {
		require.Len(t, r, 2)
	}
}

// boundary: o == d yields an empty route set, no error.
func TestBFSLESameOriginDestination(t *testing.T) {
	g := triangle()
	vecs := graph.NewVectors(g)
	sc := pathfinder.NewScratch(g)

	rs, err := BFSLE{}.Enumerate(g, vecs, pathfinder.Dijkstra{}, sc, 1, 1, Params{MaxRoutes: 5, MaxDepth: 5, MaxMisses: 10, Penalty: 1.0})
	require.NoError(t, err)
	require.Equal(t, 0, rs.Len())
}

// boundary: max_routes = 1 always returns the single shortest path.
func TestBFSLEMaxRoutesOneReturnsShortest(t *testing.T) {
	g := triangle()
	vecs := graph.NewVectors(g)
	sc := pathfinder.NewScratch(g)

	rs, err := BFSLE{}.Enumerate(g, vecs, pathfinder.Dijkstra{}, sc, 0, 2, Params{MaxRoutes: 1, MaxDepth: 10, MaxMisses: 10, Penalty: 1.0})
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	// forward-star lays out node 0's two out-links (0->1, 0->2) before
	// node 1's out-link (1->2), so the shortest two-hop path is
	// compact links 0 then 2.
	require.Equal(t, []graph.Index{0, 2}, rs.Routes()[0])
}

func TestBFSLERejectsPenaltyOverlay(t *testing.T) {
	g := triangle()
	vecs := graph.NewVectors(g)
	sc := pathfinder.NewScratch(g)

	_, err := BFSLE{}.Enumerate(g, vecs, pathfinder.Dijkstra{}, sc, 0, 2, Params{MaxRoutes: 2, MaxDepth: 10, Penalty: 2.0})
	require.Error(t, err)
}

func TestBFSLERejectsBothLimitsZero(t *testing.T) {
	g := triangle()
	vecs := graph.NewVectors(g)
	sc := pathfinder.NewScratch(g)

	_, err := BFSLE{}.Enumerate(g, vecs, pathfinder.Dijkstra{}, sc, 0, 2, Params{MaxRoutes: 0, MaxDepth: 0, Penalty: 1.0})
	require.Error(t, err)
}
