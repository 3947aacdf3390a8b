package core

import (
	"testing"
	"time"

	"github.com/davidkimai/recursive-distill/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateReport(overall float64, components schema.ComponentScores) *schema.CoherenceReport {
	return &schema.CoherenceReport{
		OverallScore: overall,
		Components:   components,
		Metadata: schema.ReportMetadata{
			Timestamp: time.Date(2026, 6, 8, 12, 0, 0, 0, time.UTC),
			Revision:  "abc123",
		},
	}
}

// TestEvaluateCheckPass checks the clean-pass verdict carries the report
// identity through.
func TestEvaluateCheckPass(t *testing.T) {
	report := gateReport(0.85, schema.ComponentScores{Signal: 0.9, Feedback: 0.85, Bounded: 0.82, Elastic: 0.84})

	result := EvaluateCheck(report, 0.8)

	assert.True(t, result.Passed)
	assert.InDelta(t, 0.85, result.OverallScore, 1e-9)
	assert.InDelta(t, 0.8, result.Threshold, 1e-9)
	assert.Equal(t, report.Components, result.Components)
	assert.Equal(t, "abc123", result.Revision)
	assert.Equal(t, report.Metadata.Timestamp, result.Timestamp)
	assert.Empty(t, result.Violations)
}

// TestEvaluateCheckOverallFailure checks that a shortfall on the overall
// score fails the gate and leads the violation list.
func TestEvaluateCheckOverallFailure(t *testing.T) {
	report := gateReport(0.75, schema.ComponentScores{Signal: 0.9, Feedback: 0.7, Bounded: 0.82, Elastic: 0.84})

	result := EvaluateCheck(report, 0.8)

	assert.False(t, result.Passed)
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "overall", result.Violations[0].Name)
	assert.InDelta(t, 0.75, result.Violations[0].Score, 1e-9)
	assert.Equal(t, "feedback", result.Violations[1].Name)
	assert.InDelta(t, 0.7, result.Violations[1].Score, 1e-9)
}

// TestEvaluateCheckComponentAdvisories checks that component shortfalls
// alone are advisory: they are listed but the gate still passes.
func TestEvaluateCheckComponentAdvisories(t *testing.T) {
	report := gateReport(0.82, schema.ComponentScores{Signal: 0.95, Feedback: 0.78, Bounded: 0.76, Elastic: 0.85})

	result := EvaluateCheck(report, 0.8)

	assert.True(t, result.Passed)
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "feedback", result.Violations[0].Name)
	assert.Equal(t, "bounded", result.Violations[1].Name)
	for _, v := range result.Violations {
		assert.InDelta(t, 0.8, v.Threshold, 1e-9)
	}
}

// TestEvaluateCheckBoundary checks that meeting the threshold exactly
// passes.
func TestEvaluateCheckBoundary(t *testing.T) {
	report := gateReport(0.8, schema.ComponentScores{Signal: 0.8, Feedback: 0.8, Bounded: 0.8, Elastic: 0.8})

	result := EvaluateCheck(report, 0.8)

	assert.True(t, result.Passed)
	assert.Empty(t, result.Violations)
}

// TestMeetsMinimum checks the per-run floor: exact meets pass, below
// fails, and component shortfalls never matter.
func TestMeetsMinimum(t *testing.T) {
	components := schema.ComponentScores{Signal: 0.3, Feedback: 0.3, Bounded: 0.9, Elastic: 0.9}

	assert.True(t, MeetsMinimum(gateReport(0.6, components), 0.6))
	assert.True(t, MeetsMinimum(gateReport(0.75, components), 0.6))
	assert.False(t, MeetsMinimum(gateReport(0.55, components), 0.6))
}
