package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScopeCoverageFactor checks coverage of declared and extracted
// scope terms against body text.
func TestScopeCoverageFactor(t *testing.T) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)

	t.Run("declared terms", func(t *testing.T) {
		documents := parseDocuments(cfg, map[string]string{
			"doc.md": "---\ntitle: Attention Survey\ntags: [attention, transformer]\nscope: [efficiency]\n---\nTransformer attention layers dominate the cost profile.\n",
		})

		factor := scorer.scopeCoverageFactor(documents, 0.3)

		assert.InDelta(t, 2.0/3.0, factor.Score, 1e-9)
		assert.Contains(t, factor.Detail, "2 of 3 scope terms covered")
	})

	t.Run("extraction fallback", func(t *testing.T) {
		documents := parseDocuments(cfg, map[string]string{
			"doc.md": "---\ntitle: Sparse Attention Kernel Survey\n---\nThe survey covers sparse attention models.\n",
		})

		factor := scorer.scopeCoverageFactor(documents, 0.3)

		// Six terms extracted from title and introduction; only
		// "kernel" never reaches the body.
		assert.InDelta(t, 5.0/6.0, factor.Score, 1e-9)
		assert.Contains(t, factor.Detail, "5 of 6 scope terms covered")
	})

	t.Run("no terms anywhere is neutral", func(t *testing.T) {
		documents := parseDocuments(cfg, map[string]string{"doc.md": ""})

		factor := scorer.scopeCoverageFactor(documents, 0.3)

		assert.InDelta(t, 0.5, factor.Score, 1e-9)
		assert.True(t, factor.Degraded)
		assert.Contains(t, factor.Detail, "no scope terms declared or extractable")
	})
}

// TestTopicFocusFactor checks section cohesion against the main topic
// set and the tolerated drift share.
func TestTopicFocusFactor(t *testing.T) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)

	t.Run("drifting section penalized", func(t *testing.T) {
		documents := parseDocuments(cfg, map[string]string{
			"doc.md": "---\ntitle: Attention Mechanisms\ntags: [attention]\n---\nAttention mechanisms overview.\n\n## Scaling\n\nAttention mechanisms scale quadratically.\n\n## Recipes\n\nBake bread with yeast overnight.\n",
		})

		factor := scorer.topicFocusFactor(documents, 0.3)

		assert.InDelta(t, 1.0-0.7/3.0, factor.Score, 1e-9)
		assert.Contains(t, factor.Detail, "2 of 3 sections cohesive")
	})

	t.Run("all sections cohesive", func(t *testing.T) {
		documents := parseDocuments(cfg, map[string]string{
			"doc.md": "---\ntitle: Attention Mechanisms\ntags: [attention]\n---\nAttention mechanisms overview.\n\n## Scaling\n\nAttention mechanisms scale quadratically.\n",
		})

		factor := scorer.topicFocusFactor(documents, 0.3)

		assert.InDelta(t, 1.0, factor.Score, 1e-9)
		assert.Contains(t, factor.Detail, "2 of 2 sections cohesive")
	})

	t.Run("fallback to introduction topics", func(t *testing.T) {
		documents := parseDocuments(cfg, map[string]string{
			"doc.md": "Graph layout engines overview.\n\n## Layout\n\nGraph layout engines order nodes.\n",
		})

		factor := scorer.topicFocusFactor(documents, 0.3)

		assert.InDelta(t, 1.0, factor.Score, 1e-9)
	})

	t.Run("no sections is neutral", func(t *testing.T) {
		factor := scorer.topicFocusFactor(nil, 0.3)

		assert.InDelta(t, 0.5, factor.Score, 1e-9)
		assert.True(t, factor.Degraded)
		assert.Contains(t, factor.Detail, "no sections found")
	})
}

// TestBoundedStubFactors checks the placeholder consistency factors and
// their configured overrides.
func TestBoundedStubFactors(t *testing.T) {
	cfg := scoringConfig()
	cfg.Params.StubFactors.TermConsistency = 0.6
	scorer := NewScorer(cfg)

	factors := scorer.boundedFactors(nil)

	require.Len(t, factors, 4)
	assert.Equal(t, "term-consistency", factors[2].Name)
	assert.InDelta(t, 0.6, factors[2].Score, 1e-9)
	assert.Contains(t, factors[2].Detail, "static default")
	assert.Equal(t, "method-boundary", factors[3].Name)
	assert.InDelta(t, 0.8, factors[3].Score, 1e-9)
}
