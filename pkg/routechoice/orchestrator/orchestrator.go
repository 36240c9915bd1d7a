package orchestrator

import (
	"context"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/checkpoint"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/demand"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/enumerator"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/linkloading"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/pathfinder"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/results"
	"github.com/lintang-b-s/routechoice/pkg/concurrent"
)

type odJob struct {
	index            int
	origin, dest     graph.Index
	originID, destID int64
}

type odJobResult struct {
	index int
	rows  []Row
}

// workerScratch bundles everything one worker goroutine reuses across
// every OD it is assigned, allocated once at batch start: path-finder
// scratch, the mutable cost/head vectors, a centroid-block touched-link
// buffer, and (when eager_link_loading) this worker's private loading
// accumulator. The enumeration seed is derived per job, not held here.
type workerScratch struct {
	sc          *pathfinder.Scratch
	vecs        *graph.Vectors
	touched     []graph.Index
	accumulator *linkloading.Accumulator
}

// Batched is the engine's main entry point: it drives route
// enumeration, optional PSL scoring, and optional eager link-loading in
// parallel over p.OriginDestinations, then reduces per-thread state and
// materializes (or checkpoints) the result.
func Batched(ctx context.Context, g *graph.Graph, p BatchedParams, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := Validate(p, g, log); err != nil {
		return nil, err
	}

	ods := dedupeODs(p.OriginDestinations, log)

	cores := p.Cores
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	if cores > len(ods) && len(ods) > 0 {
		cores = len(ods)
	}
	if cores < 1 {
		cores = 1
	}

	var enumImpl enumerator.Enumerator = enumerator.LinkPenalisationEnumerator{}
	if p.BFSLE {
		enumImpl = enumerator.BFSLE{}
	}
	enumParams := enumerator.Params{MaxRoutes: p.MaxRoutes, MaxDepth: p.MaxDepth, MaxMisses: p.MaxMisses, Penalty: p.Penalty}

	var finder pathfinder.Finder = pathfinder.Dijkstra{}
	if p.AStar && g.HasCoordinates() {
		finder = pathfinder.AStar{MaxSpeedMPS: p.AStarMaxSpeedMPS}
	}

	var columnNames []string
	if p.Demand != nil {
		for _, c := range p.Demand.Columns {
			columnNames = append(columnNames, c.Name)
		}
	}

	scratchPool := make(chan *workerScratch, cores)
	for i := 0; i < cores; i++ {
		ws := &workerScratch{
			sc:   pathfinder.NewScratch(g),
			vecs: graph.NewVectors(g),
		}
		if p.EagerLinkLoading {
			ws.accumulator = linkloading.NewAccumulator(g.NumberOfNetworkLinks(), columnNames, p.SelectLinks)
		}
		scratchPool <- ws
	}

	demandByOD := demandIndex(p)

	jobs := make([]odJob, 0, len(ods))
	for i, od := range ods {
		originIdx, _ := g.ToCompactNode(od.Origin)
		destIdx, _ := g.ToCompactNode(od.Destination)
		jobs = append(jobs, odJob{index: i, origin: originIdx, dest: destIdx, originID: od.Origin, destID: od.Destination})
	}

	jobFunc := func(job odJob) odJobResult {
		ws := <-scratchPool
		defer func() { scratchPool <- ws }()

		// seed is derived from the OD's static job index, not the
		// worker it happens to land on, so which ws a job pulls off
		// scratchPool never changes the route set: fixed (cores, seed,
		// OD order) always produces the same per-OD enumeration seed.
		enumParamsForJob := enumParams
		enumParamsForJob.Seed = enumerator.NewLCG(p.Seed + uint64(job.index)).Next()

		ws.touched = ws.touched[:0]
		g.BlockCentroids(ws.vecs.Head, job.origin, job.dest, &ws.touched)

		routeSet, err := enumImpl.Enumerate(g, ws.vecs, finder, ws.sc, job.origin, job.dest, enumParamsForJob)

		g.UnblockCentroids(ws.vecs.Head, ws.touched)

		if err != nil || routeSet == nil || routeSet.Len() == 0 {
			return odJobResult{index: job.index}
		}

		var odResult *results.OD
		if p.PathSizeLogit {
			odResult = results.Compute(routeSet.Routes(), g.Cost, results.PSLParams{Enabled: true, Beta: p.Beta, CutoffProb: p.CutoffProb})
		} else {
			odResult = results.Compute(routeSet.Routes(), g.Cost, results.PSLParams{Enabled: false, CutoffProb: p.CutoffProb})
		}
		if odResult.ZeroCostWarning {
			log.Warn("zero-cost route in route set, all routes masked", zap.Int64("origin", job.originID), zap.Int64("destination", job.destID))
		}

		demandForOD := demandByOD[demand2Key{job.originID, job.destID}]
		if p.EagerLinkLoading && ws.accumulator != nil {
			// Validate requires path_size_logit whenever eager_link_loading
			// is set, so every accumulated route here is masked and
			// carries a real PSL probability weight.
			for j, route := range odResult.Routes {
				if !odResult.Mask[j] {
					continue
				}
				ws.accumulator.AddRoute(g, uint32(job.originID), uint32(job.destID), route, odResult.Probability[j], demandForOD)
			}
		}

		rows := make([]Row, 0, len(odResult.Routes))
		for j, route := range odResult.Routes {
			networkRoute := results.ExpandRoute(g, route)
			rows = append(rows, odFromResult(job.originID, job.destID, networkRoute, odResult, j, p.PathSizeLogit))
		}
		return odJobResult{index: job.index, rows: rows}
	}

	wp := concurrent.NewWorkerPool[odJob, odJobResult](cores, len(jobs)+1)
	wp.Start(jobFunc)

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		for _, job := range jobs {
			wp.AddJob(job)
		}
		wp.Close()
		return nil
	})
	group.Go(func() error {
		wp.Wait()
		return nil
	})

	allRows := make([][]Row, len(jobs))
	for res := range wp.CollectResults() {
		allRows[res.index] = res.rows
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	if p.StoreResults {
		for _, rows := range allRows {
			result.Rows = append(result.Rows, rows...)
		}
	}

	if p.EagerLinkLoading {
		accs := make([]*linkloading.Accumulator, 0, cores)
		for i := 0; i < cores; i++ {
			ws := <-scratchPool
			accs = append(accs, ws.accumulator)
		}
		reduced := linkloading.Reduce(accs)
		if reduced != nil {
			result.NetworkLinkIDs = g.NetworkLinkIDs()
			result.TotalLinkLoad = make(map[string][]float64, len(columnNames))
			for _, name := range columnNames {
				result.TotalLinkLoad[name] = reduced.TotalLoad(name)
			}
			result.SelectLinkLoad = make(map[string]map[string][]float64, len(p.SelectLinks))
			result.SelectLinkODMatrix = make(map[string]map[string]*coo, len(p.SelectLinks))
			for _, q := range p.SelectLinks {
				result.SelectLinkLoad[q.Name] = make(map[string][]float64, len(columnNames))
				result.SelectLinkODMatrix[q.Name] = make(map[string]*coo, len(columnNames))
				for _, name := range columnNames {
					result.SelectLinkLoad[q.Name][name] = reduced.SelectLoad(q.Name, name)
					c := reduced.SelectODMatrix(q.Name, name)
					result.SelectLinkODMatrix[q.Name][name] = &odCOO{Rows: c.Rows, Cols: c.Cols, Values: c.Values}
				}
			}
		}
	}

	if p.CheckpointDir != "" {
		writer := checkpoint.New(p.CheckpointDir, checkpoint.Overwrite)
		var crows []checkpoint.Row
		for _, rows := range allRows {
			for _, r := range rows {
				crows = append(crows, checkpoint.Row{
					OriginID:      uint32(r.OriginID),
					DestinationID: uint32(r.DestinationID),
					RouteSet:      r.RouteSet,
					Cost:          r.Cost,
					Mask:          r.Mask,
					PathOverlap:   r.PathOverlap,
					Probability:   r.Probability,
				})
			}
		}
		sort.Slice(crows, func(i, j int) bool { return crows[i].OriginID < crows[j].OriginID })
		if err := writer.WriteBatch(crows); err != nil {
			return nil, err
		}
		if !p.StoreResults {
			result.Rows = nil
		}
	}

	return result, nil
}

// Run is the single-OD convenience wrapper around Batched.
func Run(ctx context.Context, g *graph.Graph, origin, destination int64, demandValue float64, p BatchedParams, log *zap.Logger) (*Result, error) {
	p.OriginDestinations = []OD{{Origin: origin, Destination: destination}}
	if demandValue != 0 {
		p.Demand = &demand.Finalized{
			Rows:    []demand.Key{{Origin: uint32(origin), Destination: uint32(destination)}},
			Columns: []demand.FinalizedColumn{{Name: "demand", F64: []float64{demandValue}}},
		}
	}
	return Batched(ctx, g, p, log)
}

type demand2Key struct {
	origin, dest int64
}

// demandIndex builds a (origin,dest) -> column -> value lookup from the
// finalized demand table, the shape each OD job needs when folding its
// routes into the link-loading accumulator.
func demandIndex(p BatchedParams) map[demand2Key]map[string]float64 {
	out := make(map[demand2Key]map[string]float64)
	if p.Demand == nil {
		return out
	}
	for i, row := range p.Demand.Rows {
		key := demand2Key{int64(row.Origin), int64(row.Destination)}
		values := make(map[string]float64, len(p.Demand.Columns))
		for _, col := range p.Demand.Columns {
			if col.F64 != nil {
				values[col.Name] = col.F64[i]
			} else {
				values[col.Name] = float64(col.F32[i])
			}
		}
		out[key] = values
	}
	return out
}
