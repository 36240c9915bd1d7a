package orchestrator

import (
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lintang-b-s/routechoice/pkg/routechoice/enumerator"
	"github.com/lintang-b-s/routechoice/pkg/routechoice/graph"
	"github.com/lintang-b-s/routechoice/pkg/util"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = validate.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

// Validate applies every pre-flight rule of §7's InvalidParameters
// kind, plus the InvalidNode rule against the resolved graph. It runs
// entirely before any parallel work starts, per the propagation policy:
// failures here surface synchronously and produce no partial state.
func Validate(p BatchedParams, g *graph.Graph, log *zap.Logger) error {
	if err := validate.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			msg := verrs[0].Translate(trans)
			return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "%s", msg)
		}
		return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "%s", err.Error())
	}

	if p.MaxRoutes <= 0 && p.MaxDepth <= 0 {
		return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "max_routes and max_depth cannot both be zero")
	}
	if p.PathSizeLogit && p.Beta < 0 {
		return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "beta must be >= 0 when path_size_logit is enabled")
	}
	if p.EagerLinkLoading && !p.PathSizeLogit {
		return util.WrapErrorf(util.ErrInvalidParameters, util.ErrInvalidParameters, "eager_link_loading requires path_size_logit: link loads are weighted by PSL probability, not by an unweighted route count")
	}

	strategy := enumerator.LinkPenalisation
	if p.BFSLE {
		strategy = enumerator.BFSLE
	}
	if err := (enumerator.Params{MaxRoutes: p.MaxRoutes, MaxDepth: p.MaxDepth, MaxMisses: p.MaxMisses, Penalty: p.Penalty}).Validate(strategy); err != nil {
		return err
	}

	for _, od := range p.OriginDestinations {
		if _, ok := g.ToCompactNode(od.Origin); !ok {
			return util.WrapErrorf(util.ErrInvalidNode, util.ErrInvalidNode, "origin %d not present in compact graph", od.Origin)
		}
		if _, ok := g.ToCompactNode(od.Destination); !ok {
			return util.WrapErrorf(util.ErrInvalidNode, util.ErrInvalidNode, "destination %d not present in compact graph", od.Destination)
		}
	}

	return nil
}

// dedupeODs collapses duplicate (origin, destination) pairs, logging a
// warning naming how many were dropped, matching the "silently
// collapsed with a warning" user-visible behavior of §7.
func dedupeODs(ods []OD, log *zap.Logger) []OD {
	seen := make(map[OD]struct{}, len(ods))
	out := make([]OD, 0, len(ods))
	dropped := 0
	for _, od := range ods {
		if _, ok := seen[od]; ok {
			dropped++
			continue
		}
		seen[od] = struct{}{}
		out = append(out, od)
	}
	if dropped > 0 {
		log.Warn("dropped duplicate OD pairs", zap.Int("dropped", dropped), zap.Int("unique", len(out)))
	}
	return out
}
