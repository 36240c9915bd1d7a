// Package rcconfig sources the orchestrator's batched parameter
// defaults from viper, the way the rest of the stack sources its
// runtime configuration, instead of hand-rolling an env/flag parser.
package rcconfig

import (
	"github.com/spf13/viper"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/orchestrator"
)

// LoadDefaults reads the §6 parameter defaults from viper, letting
// ROUTECHOICE_* environment variables override any of them, and
// returns a BatchedParams seeded with the result. No config file is
// read.
// Callers still set OriginDestinations, Demand, and SelectLinks
// themselves; those have no sane global default.
func LoadDefaults() orchestrator.BatchedParams {
	v := viper.New()
	v.SetEnvPrefix("ROUTECHOICE")
	v.AutomaticEnv()

	defaults := orchestrator.DefaultParams()

	v.SetDefault("max_routes", defaults.MaxRoutes)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("max_misses", defaults.MaxMisses)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("cores", defaults.Cores)
	v.SetDefault("bfsle", defaults.BFSLE)
	v.SetDefault("penalty", defaults.Penalty)
	v.SetDefault("a_star", defaults.AStar)
	v.SetDefault("a_star_max_speed_mps", defaults.AStarMaxSpeedMPS)
	v.SetDefault("store_results", defaults.StoreResults)
	v.SetDefault("path_size_logit", defaults.PathSizeLogit)
	v.SetDefault("eager_link_loading", defaults.EagerLinkLoading)
	v.SetDefault("beta", defaults.Beta)
	v.SetDefault("cutoff_prob", defaults.CutoffProb)
	v.SetDefault("checkpoint_dir", "")

	return orchestrator.BatchedParams{
		MaxRoutes:        v.GetInt("max_routes"),
		MaxDepth:         v.GetInt("max_depth"),
		MaxMisses:        v.GetInt("max_misses"),
		Seed:             uint64(v.GetInt64("seed")),
		Cores:            v.GetInt("cores"),
		BFSLE:            v.GetBool("bfsle"),
		Penalty:          v.GetFloat64("penalty"),
		AStar:            v.GetBool("a_star"),
		AStarMaxSpeedMPS: v.GetFloat64("a_star_max_speed_mps"),
		StoreResults:     v.GetBool("store_results"),
		PathSizeLogit:    v.GetBool("path_size_logit"),
		EagerLinkLoading: v.GetBool("eager_link_loading"),
		Beta:             v.GetFloat64("beta"),
		CutoffProb:       v.GetFloat64("cutoff_prob"),
		CheckpointDir:    v.GetString("checkpoint_dir"),
	}
}
