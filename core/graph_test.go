package core

import (
	"testing"
	"time"

	"github.com/davidkimai/recursive-distill/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitEvent builds a commit event over the given file deltas.
func commitEvent(hash, author string, ts time.Time, deltas ...schema.FileDelta) schema.Event {
	target := ""
	if len(deltas) > 0 {
		target = deltas[0].Path
	}
	return schema.Event{
		ID:        hash,
		Kind:      schema.CommitEvent,
		Actor:     author,
		Timestamp: ts,
		TargetRef: target,
		Payload:   schema.Payload{FileDeltas: deltas},
	}
}

// platformEvent builds a platform event of the given kind.
func platformEvent(kind schema.EventKind, actor, ref string, ts time.Time) schema.Event {
	return schema.Event{
		ID:        schema.EventID(kind, ref, ts),
		Kind:      kind,
		Actor:     actor,
		Timestamp: ts,
		TargetRef: ref,
	}
}

// TestFoldEventsSameFileTwoCommits covers the merge-key behavior: two
// commits by one author on one file produce two links between the same
// two nodes.
func TestFoldEventsSameFileTwoCommits(t *testing.T) {
	day1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	events := []schema.Event{
		commitEvent("c1", "ada", day1, schema.FileDelta{Path: "sections/intro.md", Additions: 10, Deletions: 2}),
		commitEvent("c2", "ada", day2, schema.FileDelta{Path: "sections/intro.md", Additions: 4, Deletions: 4}),
	}

	var graph schema.AttributionGraph
	FoldEvents(&graph, events)

	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Links, 2)

	content, contributor := graph.Nodes[0], graph.Nodes[1]
	assert.Equal(t, schema.ContentNode, content.Kind)
	assert.Equal(t, "sections/intro.md", content.Label)
	assert.Equal(t, 2, content.Contributions)
	assert.Equal(t, schema.ContributorNode, contributor.Kind)
	assert.Equal(t, "ada", contributor.Label)
	assert.Equal(t, 2, contributor.Contributions)
	assert.Equal(t, map[schema.EventKind]int{schema.CommitEvent: 2}, contributor.Breakdown)

	assert.InDelta(t, 12.0, graph.Links[0].Weight, 1e-9)
	assert.InDelta(t, 8.0, graph.Links[1].Weight, 1e-9)
	assert.Equal(t, 1, graph.Metrics.ContributorCount)
	assert.Equal(t, 1, graph.Metrics.ContentCount)
	assert.Equal(t, 2, graph.Metrics.LinkCount)
	assert.InDelta(t, 2.0, graph.Metrics.Density, 1e-9)
}

// TestFoldEventsIdempotent covers the dedupe invariant: folding an
// identical event list any number of times yields an identical graph.
func TestFoldEventsIdempotent(t *testing.T) {
	ts := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	events := []schema.Event{
		commitEvent("c1", "ada", ts, schema.FileDelta{Path: "intro.md", Additions: 5}),
		platformEvent(schema.IssueOpenEvent, "grace", "issues/7", ts.Add(time.Hour)),
		platformEvent(schema.PRReviewEvent, "hopper", "pulls/3", ts.Add(2*time.Hour)),
	}

	var once, twice schema.AttributionGraph
	FoldEvents(&once, events)
	FoldEvents(&twice, events)
	FoldEvents(&twice, events)

	assert.Equal(t, once, twice)
}

// TestFoldEventsMonotonicGrowth covers the merge-not-replace contract:
// folding a later batch keeps every earlier node and link.
func TestFoldEventsMonotonicGrowth(t *testing.T) {
	ts := time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)
	first := []schema.Event{
		commitEvent("c1", "ada", ts, schema.FileDelta{Path: "intro.md", Additions: 2}),
	}

	var graph schema.AttributionGraph
	FoldEvents(&graph, first)
	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Links, 1)

	second := append(first, platformEvent(schema.IssueOpenEvent, "grace", "issues/7", ts.Add(time.Hour)))
	FoldEvents(&graph, second)

	assert.Len(t, graph.Nodes, 4)
	assert.Len(t, graph.Links, 2)
	assert.Equal(t, map[schema.EventKind]int{
		schema.CommitEvent:    1,
		schema.IssueOpenEvent: 1,
	}, graph.Metrics.LinkKinds)
}

// TestFoldEventsKindWeights covers the fixed per-kind link weights.
func TestFoldEventsKindWeights(t *testing.T) {
	ts := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		event    schema.Event
		expected float64
	}{
		{
			name:     "issue open",
			event:    platformEvent(schema.IssueOpenEvent, "ada", "issues/1", ts),
			expected: 1.0,
		},
		{
			name:     "pull open",
			event:    platformEvent(schema.PROpenEvent, "ada", "pulls/1", ts),
			expected: 1.0,
		},
		{
			name:     "pull review",
			event:    platformEvent(schema.PRReviewEvent, "ada", "pulls/1", ts),
			expected: 0.8,
		},
		{
			name:     "issue comment",
			event:    platformEvent(schema.IssueCommentEvent, "ada", "issues/1", ts),
			expected: 0.5,
		},
		{
			name:     "pull comment",
			event:    platformEvent(schema.PRCommentEvent, "ada", "pulls/1", ts),
			expected: 0.5,
		},
		{
			name: "pull commit without deltas",
			event: schema.Event{
				ID: "h1", Kind: schema.PRCommitEvent, Actor: "ada",
				Timestamp: ts, TargetRef: "pulls/1",
			},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var graph schema.AttributionGraph
			FoldEvents(&graph, []schema.Event{tt.event})
			require.Len(t, graph.Links, 1)
			assert.InDelta(t, tt.expected, graph.Links[0].Weight, 1e-9)
		})
	}
}

// TestFoldEventsCommitFanOut covers the per-delta link fan-out and the
// minimum weight for deltas without parsable line counts.
func TestFoldEventsCommitFanOut(t *testing.T) {
	ts := time.Date(2026, 5, 5, 9, 0, 0, 0, time.UTC)
	event := commitEvent("c9", "ada", ts,
		schema.FileDelta{Path: "a.md", Additions: 3, Deletions: 1},
		schema.FileDelta{Path: "b.bin"},
	)

	var graph schema.AttributionGraph
	FoldEvents(&graph, []schema.Event{event})

	require.Len(t, graph.Nodes, 3)
	require.Len(t, graph.Links, 2)
	assert.InDelta(t, 4.0, graph.Links[0].Weight, 1e-9)
	assert.InDelta(t, 1.0, graph.Links[1].Weight, 1e-9)
	assert.Equal(t, map[string]string{"revision": "c9"}, graph.Links[0].Metadata)
}

// TestGraphDensity checks the pairwise density formula with its small
// graph guards.
func TestGraphDensity(t *testing.T) {
	tests := []struct {
		name     string
		nodes    int
		links    int
		expected float64
	}{
		{"empty graph", 0, 0, 0},
		{"single node", 1, 0, 0},
		{"one pair one link", 2, 1, 1.0},
		{"sparse", 3, 2, 2.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, graphDensity(tt.nodes, tt.links), 1e-9)
		})
	}
}

// TestTopContributors checks ordering by contribution count with id
// tie-breaks and the limit cap.
func TestTopContributors(t *testing.T) {
	ts := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	events := []schema.Event{
		commitEvent("c1", "ada", ts, schema.FileDelta{Path: "a.md", Additions: 1}),
		commitEvent("c2", "ada", ts.Add(time.Hour), schema.FileDelta{Path: "a.md", Additions: 1}),
		platformEvent(schema.PRReviewEvent, "ada", "pulls/1", ts.Add(2*time.Hour)),
		platformEvent(schema.IssueCommentEvent, "grace", "issues/2", ts.Add(3*time.Hour)),
		platformEvent(schema.PRCommentEvent, "hopper", "pulls/1", ts.Add(4*time.Hour)),
	}
	var graph schema.AttributionGraph
	FoldEvents(&graph, events)

	top := TopContributors(&graph, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "ada", top[0].Label)
	assert.Equal(t, 3, top[0].Contributions)
	assert.Equal(t, "grace", top[1].Label)

	assert.Len(t, TopContributors(&graph, 0), 3)
}
