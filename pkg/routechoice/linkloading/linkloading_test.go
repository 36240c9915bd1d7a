package linkloading

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

func triangle() *graph.Graph {
	b := graph.NewBuilder(3, 0)
	b.AddLink(0, 1, 1, []uint32{100})
	b.AddLink(1, 2, 1, []uint32{101})
	b.AddLink(0, 2, 3, []uint32{102})
	return b.Build()
}

// scenario 4: select-link query on the 0->1 link. The two-hop route
// qualifies, the direct route does not.
func TestSelectLinkQuerySoundness(t *testing.T) {
	q := compile(Query{Name: "q1", ANDSets: []ANDSet{{0}}})

	// compact layout: two-hop route is [0, 2], direct route is [1].
	require.True(t, q.satisfies([]graph.Index{0, 2}))
	require.False(t, q.satisfies([]graph.Index{1}))
}

func TestAccumulatorAppliesSelectLinkLoadOnlyToMatchingRoute(t *testing.T) {
	g := triangle()
	acc := NewAccumulator(g.NumberOfNetworkLinks(), []string{"cars"}, []Query{{Name: "q1", ANDSets: []ANDSet{{0}}}})

	// forward-star groups node 0's two out-links (compact 0 = 0->1,
	// compact 1 = 0->2) before node 1's out-link (compact 2 = 1->2), so
	// the two-hop route is [0, 2] and the direct route is [1].
	demand := map[string]float64{"cars": 10}
	acc.AddRoute(g, 0, 2, []graph.Index{0, 2}, 0.7, demand)
	acc.AddRoute(g, 0, 2, []graph.Index{1}, 0.3, demand)

	ids := g.NetworkLinkIDs()
	require.Equal(t, []uint32{100, 102, 101}, ids)

	load := acc.SelectLoad("q1", "cars")
	require.InDelta(t, 7.0, load[0], 1e-9) // ordinal 0 == network 100, two-hop route's first link
	require.InDelta(t, 0.0, load[1], 1e-9) // ordinal 1 == network 102, direct route never satisfies q1
	require.InDelta(t, 7.0, load[2], 1e-9) // ordinal 2 == network 101, two-hop route's second link

	total := acc.TotalLoad("cars")
	require.InDelta(t, 7.0, total[0], 1e-9)
	require.InDelta(t, 3.0, total[1], 1e-9)
	require.InDelta(t, 7.0, total[2], 1e-9)

	od := acc.SelectODMatrix("q1", "cars")
	require.Equal(t, 1, od.Len())
	require.Equal(t, uint32(0), od.Rows[0])
	require.Equal(t, uint32(2), od.Cols[0])
	require.InDelta(t, 7.0, od.Values[0], 1e-9)
}

func TestReduceSumsAcrossThreads(t *testing.T) {
	g := triangle()
	a1 := NewAccumulator(g.NumberOfNetworkLinks(), []string{"cars"}, nil)
	a2 := NewAccumulator(g.NumberOfNetworkLinks(), []string{"cars"}, nil)

	a1.AddRoute(g, 0, 2, []graph.Index{0, 2}, 1.0, map[string]float64{"cars": 5})
	a2.AddRoute(g, 0, 2, []graph.Index{0, 2}, 1.0, map[string]float64{"cars": 5})

	reduced := Reduce([]*Accumulator{a1, a2})
	total := reduced.TotalLoad("cars")
	require.InDelta(t, 10.0, total[0], 1e-9)
}
