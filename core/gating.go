package core

import (
	"github.com/davidkimai/recursive-distill/schema"
)

// EvaluateCheck gates a report against the publication threshold. The
// verdict passes iff the overall score meets the threshold; component
// scores below it are listed as violations but only advise.
func EvaluateCheck(report *schema.CoherenceReport, threshold float64) *schema.CheckResult {
	result := &schema.CheckResult{
		Passed:       report.OverallScore >= threshold,
		OverallScore: report.OverallScore,
		Components:   report.Components,
		Threshold:    threshold,
		Revision:     report.Metadata.Revision,
		Timestamp:    report.Metadata.Timestamp,
	}
	if report.OverallScore < threshold {
		result.Violations = append(result.Violations, schema.CheckViolation{
			Name:      "overall",
			Score:     report.OverallScore,
			Threshold: threshold,
		})
	}
	for _, comp := range schema.AllComponents {
		if score := report.Components.ByComponent(comp); score < threshold {
			result.Violations = append(result.Violations, schema.CheckViolation{
				Name:      string(comp),
				Score:     score,
				Threshold: threshold,
			})
		}
	}
	return result
}

// MeetsMinimum reports whether the overall score holds the per-run
// minimum floor. The floor is looser than the publication threshold
// and gates run outcomes rather than publication.
func MeetsMinimum(report *schema.CoherenceReport, minimum float64) bool {
	return report.OverallScore >= minimum
}
