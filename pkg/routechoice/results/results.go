// Package results computes, for a single OD's deduplicated route set,
// cost, the binary-logit cutoff mask, path-overlap (gamma), and
// path-size-logit probability.
package results

import (
	"math"
	"sort"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
)

// PSLParams configures the binary-logit cutoff and the path-size-logit
// probability model.
type PSLParams struct {
	Enabled    bool
	Beta       float64
	CutoffProb float64
}

// OD is the per-OD choice-result record: parallel vectors of length
// |route set|.
type OD struct {
	Routes          [][]graph.Index
	Cost            []float64
	Mask            []bool
	PathOverlap     []float64
	Probability     []float64
	ZeroCostWarning bool
}

// Compute builds an OD result from a deduplicated route set. baseCost
// looks up a compact link's base cost (the Compressed Graph Adapter's
// Cost method).
func Compute(routes [][]graph.Index, baseCost func(graph.Index) float64, params PSLParams) *OD {
	n := len(routes)
	res := &OD{
		Routes:      routes,
		Cost:        make([]float64, n),
		Mask:        make([]bool, n),
		PathOverlap: make([]float64, n),
		Probability: make([]float64, n),
	}
	if n == 0 {
		return res
	}

	for j, route := range routes {
		var c float64
		for _, link := range route {
			c += baseCost(link)
		}
		res.Cost[j] = c
	}

	argmin := 0
	cMin := res.Cost[0]
	for j := 1; j < n; j++ {
		if res.Cost[j] < cMin {
			cMin = res.Cost[j]
			argmin = j
		}
	}

	for j := 0; j < n; j++ {
		if res.Cost[j] == 0 {
			res.ZeroCostWarning = true
			break
		}
	}
	if res.ZeroCostWarning {
		return res // every mask entry stays false, probabilities stay 0
	}

	scaledCutoffProb := 0.5 + (1-params.CutoffProb)*0.5
	cutoff := cMin + math.Log(scaledCutoffProb/(1-scaledCutoffProb))
	for j := 0; j < n; j++ {
		res.Mask[j] = res.Cost[j] <= cutoff
	}
	res.Mask[argmin] = true

	if !params.Enabled {
		return res
	}

	freq := make(map[graph.Index]int)
	for _, lc := range LinkCounts(routes, res.Mask) {
		freq[lc.Link] = lc.Count
	}
	for j, route := range routes {
		if !res.Mask[j] {
			continue
		}
		var gamma float64
		for _, link := range route {
			gamma += baseCost(link) / float64(freq[link])
		}
		res.PathOverlap[j] = gamma / res.Cost[j]
	}

	beta := params.Beta
	for j := 0; j < n; j++ {
		if !res.Mask[j] {
			continue
		}
		var denom float64
		for k := 0; k < n; k++ {
			if !res.Mask[k] {
				continue
			}
			ratio := res.PathOverlap[k] / res.PathOverlap[j]
			denom += math.Pow(ratio, beta) * math.Exp(res.Cost[j]-res.Cost[k])
		}
		res.Probability[j] = 1 / denom
	}

	return res
}

// frequency counts, for every link appearing in at least one unmasked
// route, how many unmasked routes contain it. Each route is assumed
// simple (a link appears at most once per route).
func frequency(routes [][]graph.Index, mask []bool) map[graph.Index]int {
	freq := make(map[graph.Index]int)
	for j, route := range routes {
		if !mask[j] {
			continue
		}
		for _, link := range route {
			freq[link]++
		}
	}
	return freq
}

// LinkCount pairs a compact link id with how many unmasked routes
// contain it.
type LinkCount struct {
	Link  graph.Index
	Count int
}

// LinkCounts returns (link_id, count) pairs across every unmasked
// route, sorted by link id, matching the sort-then-run-length-count
// framing of the frequency computation.
func LinkCounts(routes [][]graph.Index, mask []bool) []LinkCount {
	freq := frequency(routes, mask)
	out := make([]LinkCount, 0, len(freq))
	for link, count := range freq {
		out = append(out, LinkCount{Link: link, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Link < out[j].Link })
	return out
}

// ExpandRoute maps a compact-link route to original network link ids in
// path order, through the graph's compressed-to-network mapping.
func ExpandRoute(g *graph.Graph, route []graph.Index) []uint32 {
	var out []uint32
	for _, link := range route {
		out = append(out, g.ExpandToNetwork(link)...)
	}
	return out
}
