package orchestrator

import "github.com/lintang-b-s/routechoice/pkg/routechoice/results"

// Row is one materialized output row: origin/destination in external
// id space, plus the route's expanded network link ids and, when PSL
// was run, its cost/mask/overlap/probability.
type Row struct {
	OriginID      int64
	DestinationID int64
	RouteSet      []uint32
	Cost          float64
	Mask          bool
	PathOverlap   float64
	Probability   float64
}

// Result is the batched call's in-memory output, populated when
// store_results = true.
type Result struct {
	Rows []Row

	// NetworkLinkIDs translates a TotalLinkLoad/SelectLinkLoad index
	// (an ordinal position) into the caller's original network link id.
	NetworkLinkIDs []uint32
	// TotalLinkLoad maps demand column name to a dense per-network-link
	// load vector, populated when eager_link_loading = true.
	TotalLinkLoad map[string][]float64
	// SelectLinkLoad maps query name -> column name -> dense load vector.
	SelectLinkLoad map[string]map[string][]float64
	// SelectLinkODMatrix maps query name -> column name -> sparse COO.
	SelectLinkODMatrix map[string]map[string]*coo

	Warnings []string
}

type coo = odCOO

// odCOO mirrors linkloading.COO's shape without importing it here,
// keeping this package's public result type independent of the
// link-loading package's internals; Batched copies each reduced
// linkloading.COO into it.
type odCOO struct {
	Rows   []uint32
	Cols   []uint32
	Values []float64
}

func odFromResult(originID, destID int64, route []uint32, r *results.OD, j int, hasAssignment bool) Row {
	row := Row{OriginID: originID, DestinationID: destID, RouteSet: route}
	if hasAssignment {
		row.Cost = r.Cost[j]
		row.Mask = r.Mask[j]
		row.PathOverlap = r.PathOverlap[j]
		row.Probability = r.Probability[j]
	}
	return row
}
