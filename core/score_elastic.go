package core

import "github.com/davidkimai/recursive-distill/schema"

// Remediation strings for low elastic tolerance factors.
const (
	remedyContradiction = "Acknowledge known contradictions and integrate them instead of omitting them."
	remedyPerspective   = "Present alternative perspectives on contested points."
	remedyUncertainty   = "Qualify uncertain statements with explicit uncertainty markers."
	remedyLimitation    = "Add a limitations discussion acknowledging where the method or scope ends."
)

// elasticFactors measures tolerance for contradiction and uncertainty.
// All four factors are placeholder constants pending real analyzers;
// their scores come from configuration and are marked static in the
// detail strings.
func (s *Scorer) elasticFactors() []schema.FactorScore {
	weights := s.cfg.Params.ElasticWeights
	stubs := s.cfg.Params.StubFactors
	return []schema.FactorScore{
		stubFactor("contradiction-integration", stubs.ContradictionIntegration, weights.Contradiction, remedyContradiction),
		stubFactor("multi-perspective", stubs.MultiPerspective, weights.Perspective, remedyPerspective),
		stubFactor("uncertainty-density", stubs.UncertaintyDensity, weights.Uncertainty, remedyUncertainty),
		stubFactor("limitation-acknowledgment", stubs.LimitationAcknowledgment, weights.Limitation, remedyLimitation),
	}
}
