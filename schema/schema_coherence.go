package schema

import "time"

// CoherenceReport is the output of one scoring run. It fully replaces
// the prior snapshot file and is appended to the history.
type CoherenceReport struct {
	OverallScore    float64                `json:"overallScore"`
	Components      ComponentScores        `json:"components"`
	Details         map[Component][]string `json:"details"`
	Recommendations []string               `json:"recommendations"`
	Metadata        ReportMetadata         `json:"metadata"`
}

// ComponentScores holds the four coherence sub-scores, each in [0,1].
type ComponentScores struct {
	Signal   float64 `json:"signal"`
	Feedback float64 `json:"feedback"`
	Bounded  float64 `json:"bounded"`
	Elastic  float64 `json:"elastic"`
}

// ReportMetadata identifies the run that produced a report.
type ReportMetadata struct {
	Timestamp      time.Time `json:"timestamp"`      // Run start, UTC
	Revision       string    `json:"revision"`       // Head revision hash, empty with no commits
	RecursiveDepth int       `json:"recursiveDepth"` // Max declared recursion depth across documents
}

// ByComponent returns the score for one component.
func (c ComponentScores) ByComponent(comp Component) float64 {
	switch comp {
	case SignalComponent:
		return c.Signal
	case FeedbackComponent:
		return c.Feedback
	case BoundedComponent:
		return c.Bounded
	case ElasticComponent:
		return c.Elastic
	default:
		return 0
	}
}

// Set assigns the score for one component.
func (c *ComponentScores) Set(comp Component, score float64) {
	switch comp {
	case SignalComponent:
		c.Signal = score
	case FeedbackComponent:
		c.Feedback = score
	case BoundedComponent:
		c.Bounded = score
	case ElasticComponent:
		c.Elastic = score
	}
}

// FactorScore is one independently computed factor of a sub-score,
// carrying the degradation marking required when its data source was
// unavailable.
type FactorScore struct {
	Name     string  // Factor label used in details and recommendations
	Score    float64 // Normalized to [0,1]
	Weight   float64 // Blend weight within the component
	Detail   string  // Human-readable computation summary
	Degraded bool    // True when the score is a substituted neutral default
	Remedy   string  // Remediation string emitted when the factor is low
}
