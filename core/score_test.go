package core

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/davidkimai/recursive-distill/core/ingest"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/docs"
	"github.com/davidkimai/recursive-distill/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoringConfig returns a config carrying the documented scoring
// defaults.
func scoringConfig() *contract.Config {
	return &contract.Config{
		Params:   schema.DefaultScoringParams(),
		Lexicons: schema.DefaultLexicons(),
	}
}

// parseDocuments runs the document parser over in-memory markdown,
// ordered by path.
func parseDocuments(cfg *contract.Config, files map[string]string) []schema.Document {
	loader := docs.NewLoader(cfg)
	parsed := make([]schema.Document, 0, len(files))
	for _, path := range slices.Sorted(maps.Keys(files)) {
		parsed = append(parsed, loader.Parse(path, []byte(files[path])))
	}
	return parsed
}

// offlineActivity returns activity with every platform signal down and
// the given local revisions.
func offlineActivity(revisions ...schema.Revision) *ingest.Activity {
	const reason = "platform repository not configured"
	head := ""
	if len(revisions) > 0 {
		head = revisions[0].Hash
	}
	return &ingest.Activity{
		HeadRevision:  head,
		Revisions:     revisions,
		Issues:        contract.Unavailable[[]schema.PlatformItem](reason),
		IssueComments: contract.Unavailable[[]schema.PlatformItem](reason),
		Pulls:         contract.Unavailable[[]schema.PlatformItem](reason),
		PullComments:  contract.Unavailable[[]schema.PlatformItem](reason),
		Reviews:       contract.Unavailable[map[int][]schema.PlatformItem](reason),
		PullCommits:   contract.Unavailable[map[int][]schema.Revision](reason),
		Forks:         contract.Unavailable[int](reason),
	}
}

// emptyPlatformActivity returns activity where the platform answered
// every fetch with no data.
func emptyPlatformActivity(revisions ...schema.Revision) *ingest.Activity {
	head := ""
	if len(revisions) > 0 {
		head = revisions[0].Hash
	}
	return &ingest.Activity{
		HeadRevision:  head,
		Revisions:     revisions,
		Issues:        contract.Ok([]schema.PlatformItem{}),
		IssueComments: contract.Ok([]schema.PlatformItem{}),
		Pulls:         contract.Ok([]schema.PlatformItem{}),
		PullComments:  contract.Ok([]schema.PlatformItem{}),
		Reviews:       contract.Ok(map[int][]schema.PlatformItem{}),
		PullCommits:   contract.Ok(map[int][]schema.Revision{}),
		Forks:         contract.Ok(0),
	}
}

// TestBlendFactors checks the weighted factor blend.
func TestBlendFactors(t *testing.T) {
	tests := []struct {
		name     string
		factors  []schema.FactorScore
		expected float64
	}{
		{
			name: "documented weights",
			factors: []schema.FactorScore{
				{Score: 1.0, Weight: 0.3},
				{Score: 0.5, Weight: 0.3},
				{Score: 1.0, Weight: 0.2},
				{Score: 0.0, Weight: 0.2},
			},
			expected: 0.65,
		},
		{
			name: "weights normalize",
			factors: []schema.FactorScore{
				{Score: 1.0, Weight: 2},
				{Score: 0.0, Weight: 2},
			},
			expected: 0.5,
		},
		{
			name:     "no factors",
			factors:  nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, blendFactors(tt.factors), 1e-9)
		})
	}
}

// TestCombineComponents checks the weighted geometric mean, including
// the multiplicative collapse when a component hits zero.
func TestCombineComponents(t *testing.T) {
	tests := []struct {
		name     string
		scores   schema.ComponentScores
		weights  map[schema.Component]float64
		expected float64
	}{
		{
			name:     "all perfect",
			scores:   schema.ComponentScores{Signal: 1, Feedback: 1, Bounded: 1, Elastic: 1},
			expected: 1,
		},
		{
			name:     "uniform",
			scores:   schema.ComponentScores{Signal: 0.5, Feedback: 0.5, Bounded: 0.5, Elastic: 0.5},
			expected: 0.5,
		},
		{
			name:     "plain geometric mean",
			scores:   schema.ComponentScores{Signal: 0.25, Feedback: 1, Bounded: 1, Elastic: 1},
			expected: 0.7071067812,
		},
		{
			name:     "zero component collapses",
			scores:   schema.ComponentScores{Signal: 1, Feedback: 0, Bounded: 1, Elastic: 1},
			expected: 0,
		},
		{
			name:   "custom weight emphasizes signal",
			scores: schema.ComponentScores{Signal: 0.5, Feedback: 1, Bounded: 1, Elastic: 1},
			weights: map[schema.Component]float64{
				schema.SignalComponent:   2,
				schema.FeedbackComponent: 1,
				schema.BoundedComponent:  1,
				schema.ElasticComponent:  1,
			},
			expected: 0.7578582833,
		},
		{
			name:     "missing weights default to one",
			scores:   schema.ComponentScores{Signal: 0.5, Feedback: 1, Bounded: 1, Elastic: 1},
			weights:  map[schema.Component]float64{schema.SignalComponent: 2},
			expected: 0.7578582833,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, combineComponents(tt.scores, tt.weights), 1e-9)
		})
	}
}

// TestRecommendFixes checks the component gate and the declaration
// ordering of emitted remediations.
func TestRecommendFixes(t *testing.T) {
	factors := map[schema.Component][]schema.FactorScore{
		schema.SignalComponent: {
			{Name: "citation-density", Score: 0.2, Remedy: "add citations"},
			{Name: "claim-support", Score: 0.9, Remedy: "support claims"},
			{Name: "data-integrity", Score: 0.1, Remedy: "add data"},
		},
		schema.FeedbackComponent: {
			{Name: "issue-response", Score: 0.1, Remedy: "respond to issues"},
		},
		schema.BoundedComponent: {
			{Name: "scope-coverage", Score: 0.8, Remedy: "cover scope"},
		},
		schema.ElasticComponent: {
			{Name: "uncertainty-density", Score: 0.3, Remedy: "mark uncertainty"},
		},
	}
	components := schema.ComponentScores{Signal: 0.4, Feedback: 0.9, Bounded: 0.5, Elastic: 0.6}

	got := recommendFixes(factors, components, 0.7)

	// Feedback stays silent above the threshold; bounded is low but has
	// no low factor to point at.
	assert.Equal(t, []string{"add citations", "add data", "mark uncertainty"}, got)
}

// TestScoreEmptyRepository covers the no-commit, no-platform case: the
// run must complete with neutral feedback factors and a usable report.
func TestScoreEmptyRepository(t *testing.T) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)
	documents := parseDocuments(cfg, map[string]string{
		"intro.md": "# Introduction\n\nA short overview of the project.\n",
	})

	report := scorer.Score(documents, offlineActivity(), time.Now())

	require.NotNil(t, report)
	assert.InDelta(t, 0.5, report.Components.Feedback, 1e-9)
	for _, comp := range schema.AllComponents {
		score := report.Components.ByComponent(comp)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		assert.Len(t, report.Details[comp], 4)
	}
	assert.Greater(t, report.OverallScore, 0.0)
	assert.NotEmpty(t, report.Recommendations)
	assert.Empty(t, report.Metadata.Revision)

	details := report.Details[schema.FeedbackComponent]
	for _, detail := range details[:3] {
		assert.Contains(t, detail, "platform repository not configured")
	}
	assert.Contains(t, details[3], "no commits")
}

// TestScoreZeroSignalCollapsesOverall checks that one collapsed
// component zeroes the overall score.
func TestScoreZeroSignalCollapsesOverall(t *testing.T) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)
	documents := parseDocuments(cfg, map[string]string{
		"claims.md": "The benchmark demonstrates a large gain. Nothing else backs it up.\n",
	})

	report := scorer.Score(documents, offlineActivity(), time.Now())

	assert.Zero(t, report.Components.Signal)
	assert.Zero(t, report.OverallScore)
}

// TestScoreMetadata checks the run metadata recorded in the report.
func TestScoreMetadata(t *testing.T) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)
	documents := parseDocuments(cfg, map[string]string{
		"deep.md":    "---\nrecursion:\n  depth: 3\n---\n# Depth\n\nBody text.\n",
		"shallow.md": "# Shallow\n\nBody text.\n",
	})
	activity := offlineActivity(schema.Revision{Hash: "abc123", Timestamp: time.Now()})
	now := time.Date(2026, 3, 10, 12, 30, 0, 0, time.FixedZone("PST", -8*3600))

	report := scorer.Score(documents, activity, now)

	assert.Equal(t, "abc123", report.Metadata.Revision)
	assert.Equal(t, 3, report.Metadata.RecursiveDepth)
	assert.Equal(t, now.UTC(), report.Metadata.Timestamp)

	report = scorer.Score(documents[1:], activity, now)
	assert.Equal(t, 1, report.Metadata.RecursiveDepth)
}

// TestScoreStubFactors checks the placeholder factors: configured
// constants marked static in their detail strings.
func TestScoreStubFactors(t *testing.T) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)

	factors := scorer.elasticFactors()
	require.Len(t, factors, 4)
	for _, factor := range factors {
		assert.InDelta(t, 0.8, factor.Score, 1e-9)
		assert.Contains(t, factor.Detail, "static default")
		assert.False(t, factor.Degraded)
	}
	assert.InDelta(t, 0.8, blendFactors(factors), 1e-9)

	cfg.Params.StubFactors.UncertaintyDensity = 0.4
	factors = scorer.elasticFactors()
	assert.Equal(t, "uncertainty-density", factors[2].Name)
	assert.InDelta(t, 0.4, factors[2].Score, 1e-9)
}

// BenchmarkScore measures a full scoring pass over a mid-sized corpus.
func BenchmarkScore(b *testing.B) {
	cfg := scoringConfig()
	scorer := NewScorer(cfg)
	var sb strings.Builder
	sb.WriteString("---\ntitle: Benchmark Corpus\ntags: [attention, scaling]\n---\n")
	for i := range 40 {
		fmt.Fprintf(&sb, "## Section %d\n\nAttention scaling demonstrates stable gains [%d]. More prose follows here.\n\n", i, i)
	}
	documents := parseDocuments(cfg, map[string]string{"bench.md": sb.String()})
	activity := emptyPlatformActivity(schema.Revision{Hash: "abc", Message: "address review #1", Timestamp: time.Now()})

	for b.Loop() {
		scorer.Score(documents, activity, time.Now())
	}
}
