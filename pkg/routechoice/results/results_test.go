package results

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

// scenario 1: triangle graph, PSL beta=1, cutoff_prob=0. Both routes
// unmasked, gamma_1 = gamma_2 = 1 (no overlap), probabilities from
// exp(0) and exp(cost_1 - cost_2) = exp(-1).
func TestComputeTriangleScenario(t *testing.T) {
	costs := map[graph.Index]float64{0: 1, 1: 1, 2: 3}
	baseCost := func(link graph.Index) float64 { return costs[link] }

	routes := [][]graph.Index{{0, 1}, {2}}
	res := Compute(routes, baseCost, PSLParams{Enabled: true, Beta: 1, CutoffProb: 0})

	require.False(t, res.ZeroCostWarning)
	require.Equal(t, []float64{2, 3}, res.Cost)
	require.True(t, res.Mask[0])
	require.True(t, res.Mask[1])

	require.InDelta(t, 1.0, res.PathOverlap[0], 1e-9)
	require.InDelta(t, 1.0, res.PathOverlap[1], 1e-9)

	require.InDelta(t, 0.731, res.Probability[0], 0.01)
	require.InDelta(t, 0.269, res.Probability[1], 0.01)
	require.InDelta(t, 1.0, res.Probability[0]+res.Probability[1], 1e-9)
}

// scenario 3: diamond graph, two equal-cost, link-disjoint routes.
// Every link's frequency is 1, so gamma equals the route's own cost and
// path-overlap collapses to 1.0 for both — the correct path-size for
// routes that share nothing, and equal cost still yields equal
// probability.
func TestComputeDiamondScenario(t *testing.T) {
	costs := map[graph.Index]float64{0: 1, 1: 1, 2: 1, 3: 1}
	baseCost := func(link graph.Index) float64 { return costs[link] }

	routes := [][]graph.Index{{0, 2}, {1, 3}}
	res := Compute(routes, baseCost, PSLParams{Enabled: true, Beta: 1, CutoffProb: 0})

	require.Equal(t, []float64{2, 2}, res.Cost)
	require.InDelta(t, 1.0, res.PathOverlap[0], 1e-9)
	require.InDelta(t, 1.0, res.PathOverlap[1], 1e-9)
	require.InDelta(t, 0.5, res.Probability[0], 1e-9)
	require.InDelta(t, 0.5, res.Probability[1], 1e-9)
}

// scenario 5: a zero-cost route masks the entire route set and produces
// all-zero probabilities.
func TestComputeZeroCostPathologyMasksEverything(t *testing.T) {
	costs := map[graph.Index]float64{0: 1, 1: 1, 2: 0}
	baseCost := func(link graph.Index) float64 { return costs[link] }

	routes := [][]graph.Index{{0, 1}, {2}}
	res := Compute(routes, baseCost, PSLParams{Enabled: true, Beta: 1, CutoffProb: 0})

	require.True(t, res.ZeroCostWarning)
	for _, m := range res.Mask {
		require.False(t, m)
	}
	for _, p := range res.Probability {
		require.Equal(t, 0.0, p)
	}
}

func TestComputeEmptyRouteSet(t *testing.T) {
	res := Compute(nil, func(graph.Index) float64 { return 0 }, PSLParams{Enabled: true})
	require.Equal(t, 0, len(res.Cost))
}

func TestCutoffAlwaysIncludesArgmin(t *testing.T) {
	costs := map[graph.Index]float64{0: 1, 1: 10}
	baseCost := func(link graph.Index) float64 { return costs[link] }
	routes := [][]graph.Index{{0}, {1}}

	// cutoff_prob = 1 collapses the cutoff to c_min: only the shortest
	// route should survive, but the argmin invariant must still hold.
	res := Compute(routes, baseCost, PSLParams{Enabled: false, CutoffProb: 1.0})
	require.True(t, res.Mask[0])
	require.False(t, math.IsNaN(res.Cost[0]))
}
