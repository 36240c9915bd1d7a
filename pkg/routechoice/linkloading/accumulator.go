package linkloading

import "github.com/lintang-b-s/routechoice/pkg/routechoice/graph"

// Accumulator is one thread's private view of the loading tables:
// total link load per demand column, select-link load per (query,
// column), and a select-link OD COO buffer per (query, column). The
// orchestrator creates one per worker at batch start and reduces them
// into a single set after the parallel region ends.
type Accumulator struct {
	nNetworkLinks int
	queries       []compiledQuery

	columnNames []string
	totalLoad   map[string][]float64            // column -> dense[n_network_links]
	selectLoad  map[string]map[string][]float64 // query -> column -> dense[n_network_links]
	selectOD    map[string]map[string]*COO      // query -> column -> COO
}

// NewAccumulator allocates a zeroed accumulator sized for
// nNetworkLinks, over the given demand column names and select-link
// queries.
func NewAccumulator(nNetworkLinks int, columnNames []string, queries []Query) *Accumulator {
	a := &Accumulator{
		nNetworkLinks: nNetworkLinks,
		columnNames:   columnNames,
		totalLoad:     make(map[string][]float64, len(columnNames)),
		selectLoad:    make(map[string]map[string][]float64, len(queries)),
		selectOD:      make(map[string]map[string]*COO, len(queries)),
	}
	for _, name := range columnNames {
		a.totalLoad[name] = make([]float64, nNetworkLinks)
	}
	for _, q := range queries {
		cq := compile(q)
		a.queries = append(a.queries, cq)
		a.selectLoad[q.Name] = make(map[string][]float64, len(columnNames))
		a.selectOD[q.Name] = make(map[string]*COO, len(columnNames))
		for _, name := range columnNames {
			a.selectLoad[q.Name][name] = make([]float64, nNetworkLinks)
			a.selectOD[q.Name][name] = &COO{}
		}
	}
	return a
}

// AddRoute folds one route's probability-weighted contribution into
// this thread's accumulators, for every demand column at once.
func (a *Accumulator) AddRoute(g *graph.Graph, originID, destID uint32, route []graph.Index, probability float64, demand map[string]float64) {
	if probability == 0 || len(route) == 0 {
		return
	}

	ordinals := make([]int, 0, len(route))
	for _, link := range route {
		ordinals = append(ordinals, g.ExpandToNetworkOrdinals(link)...)
	}

	for column, d := range demand {
		if d == 0 {
			continue
		}
		load := probability * d
		dense := a.totalLoad[column]
		for _, ord := range ordinals {
			dense[ord] += load
		}
	}

	for _, cq := range a.queries {
		if !cq.satisfies(route) {
			continue
		}
		for column, d := range demand {
			if d == 0 {
				continue
			}
			load := probability * d
			dense := a.selectLoad[cq.name][column]
			for _, ord := range ordinals {
				dense[ord] += load
			}
			a.selectOD[cq.name][column].Append(originID, destID, load)
		}
	}
}

// Reduce sums a slice of per-thread accumulators into a single result,
// single-threaded, associative-sum style: bitwise-identical results
// only at a fixed reduction order. The orchestrator passes accumulators
// in the order its scratch pool hands them back, which is fixed only
// when cores = 1; otherwise results agree statistically, not bitwise.
func Reduce(accs []*Accumulator) *Accumulator {
	if len(accs) == 0 {
		return nil
	}
	first := accs[0]
	out := &Accumulator{
		nNetworkLinks: first.nNetworkLinks,
		columnNames:   first.columnNames,
		totalLoad:     make(map[string][]float64, len(first.columnNames)),
		selectLoad:    make(map[string]map[string][]float64),
		selectOD:      make(map[string]map[string]*COO),
	}
	for _, name := range first.columnNames {
		out.totalLoad[name] = make([]float64, first.nNetworkLinks)
	}
	for q, byCol := range first.selectLoad {
		out.selectLoad[q] = make(map[string][]float64, len(byCol))
		out.selectOD[q] = make(map[string]*COO, len(byCol))
		for col := range byCol {
			out.selectLoad[q][col] = make([]float64, first.nNetworkLinks)
			out.selectOD[q][col] = &COO{}
		}
	}

	for _, acc := range accs {
		for name, dense := range acc.totalLoad {
			target := out.totalLoad[name]
			for i, v := range dense {
				target[i] += v
			}
		}
		for q, byCol := range acc.selectLoad {
			for col, dense := range byCol {
				target := out.selectLoad[q][col]
				for i, v := range dense {
					target[i] += v
				}
			}
		}
		for q, byCol := range acc.selectOD {
			for col, coo := range byCol {
				out.selectOD[q][col].Extend(coo)
			}
		}
	}
	return out
}

func (a *Accumulator) TotalLoad(column string) []float64 { return a.totalLoad[column] }

func (a *Accumulator) SelectLoad(query, column string) []float64 {
	return a.selectLoad[query][column]
}

func (a *Accumulator) SelectODMatrix(query, column string) *COO {
	return a.selectOD[query][column]
}
