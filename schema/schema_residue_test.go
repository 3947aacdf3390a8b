package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResidueCatalogRecount(t *testing.T) {
	catalog := ResidueCatalog{
		Instances: []ResidueInstance{
			{Classification: ScopeBoundary, Status: ActiveResidue, Valence: NegativeValence},
			{Classification: ScopeBoundary, Status: PendingResidue, Valence: NeutralValence},
			{Classification: LinguisticUncertainty, Status: ActiveResidue, Valence: PositiveValence},
		},
	}

	catalog.Recount()

	agg := catalog.Aggregates
	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 2, agg.ByClassification[ScopeBoundary])
	assert.Equal(t, 1, agg.ByClassification[LinguisticUncertainty])
	assert.Equal(t, 2, agg.ByStatus[ActiveResidue])
	assert.Equal(t, 1, agg.ByStatus[PendingResidue])
	assert.Equal(t, 1, agg.ByValence[PositiveValence])
	assert.Equal(t, ScopeBoundary, agg.Dominant)
}

func TestResidueCatalogRecountTieBreak(t *testing.T) {
	// Equal counts resolve toward taxonomy declaration order.
	catalog := ResidueCatalog{
		Instances: []ResidueInstance{
			{Classification: AcknowledgedContradiction, Status: ActiveResidue, Valence: NeutralValence},
			{Classification: UnsupportedAssertion, Status: ActiveResidue, Valence: NeutralValence},
		},
	}

	catalog.Recount()
	assert.Equal(t, UnsupportedAssertion, catalog.Aggregates.Dominant,
		"unsupported_assertion declares before acknowledged_contradiction")
}

func TestResidueCatalogRecountEmpty(t *testing.T) {
	var catalog ResidueCatalog
	catalog.Recount()

	assert.Zero(t, catalog.Aggregates.Total)
	assert.Empty(t, catalog.Aggregates.Dominant)
}

func TestResidueKey(t *testing.T) {
	a := ResidueInstance{ID: "one", Description: "gap in proof", Section: "Methods"}
	b := ResidueInstance{ID: "two", Description: "gap in proof", Section: "Methods"}
	c := ResidueInstance{ID: "three", Description: "gap in proof", Section: "Results"}

	assert.Equal(t, a.Key(), b.Key(), "identity ignores id")
	assert.NotEqual(t, a.Key(), c.Key(), "section participates in identity")
}
