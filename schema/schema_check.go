package schema

import "time"

// CheckResult holds the publication gating verdict for one report.
// Passed is true iff the overall score meets the publication threshold;
// callers must treat a failed check as blocking, not advisory.
type CheckResult struct {
	Passed       bool             `json:"passed"`
	OverallScore float64          `json:"overallScore"`
	Components   ComponentScores  `json:"components"`
	Threshold    float64          `json:"threshold"`
	Violations   []CheckViolation `json:"violations"`
	Revision     string           `json:"revision"`
	Timestamp    time.Time        `json:"timestamp"`
}

// CheckViolation names one score that sits below its required level.
type CheckViolation struct {
	Name      string  `json:"name"` // "overall" or a component name
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
}
