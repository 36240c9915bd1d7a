// Package orchestrator drives route enumeration, PSL scoring, and
// link-loading in parallel over a batch of OD pairs, enforcing
// pre-flight validation and owning the per-thread scratch arena.
package orchestrator

import (
	"github.com/lintang-b-s/routechoice/pkg/routechoice/demand"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/linkloading"
)

// OD is one caller-supplied origin-destination pair, in external node
// id space (resolved to compact indices during validation).
type OD struct {
	Origin      int64
	Destination int64
}

// BatchedParams is the full parameter set of the batched entry point.
// Struct tags drive go-playground/validator's scalar-range checks;
// cross-field rules that validator's tag language can't express (at
// least one of MaxRoutes/MaxDepth positive, penalty vs. strategy) are
// applied by Validate in validate.go.
type BatchedParams struct {
	OriginDestinations []OD `validate:"required,min=1,dive"`
	Demand             *demand.Finalized
	SelectLinks        []linkloading.Query

	MaxRoutes int    `validate:"gte=0"`
	MaxDepth  int    `validate:"gte=0"`
	MaxMisses int    `validate:"gte=0"`
	Seed      uint64 `validate:"gte=0"`
	Cores     int    `validate:"gte=0"`

	BFSLE   bool
	Penalty float64 `validate:"gt=0"`
	AStar   bool
	// AStarMaxSpeedMPS is the admissible-heuristic speed bound used when
	// AStar is selected and the graph carries coordinates; ignored
	// otherwise. Defaults to 33.3 m/s (~120 km/h).
	AStarMaxSpeedMPS float64 `validate:"gte=0"`
	Where            string

	StoreResults     bool
	PathSizeLogit    bool
	EagerLinkLoading bool

	Beta       float64 `validate:"gte=0"`
	CutoffProb float64 `validate:"gte=0,lte=1"`

	CheckpointDir string
}

// DefaultParams mirrors the parameter defaults of §6: max_routes = 0,
// max_depth = 0 (caller must raise at least one), max_misses = 100,
// seed = 0, cores = 0 (auto), penalty = 1.0, a_star = true,
// bfsle = true, store_results = true, path_size_logit = false,
// eager_link_loading = false, beta = 1.0, cutoff_prob = 0.0.
func DefaultParams() BatchedParams {
	return BatchedParams{
		MaxRoutes:        0,
		MaxDepth:         0,
		MaxMisses:        100,
		Seed:             0,
		Cores:            0,
		BFSLE:            true,
		Penalty:          1.0,
		AStar:            true,
		AStarMaxSpeedMPS: 33.3,
		StoreResults:     true,
		PathSizeLogit:    false,
		EagerLinkLoading: false,
		Beta:             1.0,
		CutoffProb:       0.0,
	}
}
