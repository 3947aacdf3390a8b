package schema

import "time"

// PeriodReport is the trend artifact: current scores against the most
// recent snapshot prior to the period start, merged with attribution
// and residue rollups.
type PeriodReport struct {
	GeneratedAt     time.Time                `json:"generatedAt"`
	PeriodStart     time.Time                `json:"periodStart"`
	PeriodEnd       time.Time                `json:"periodEnd"`
	Overall         TrendDelta               `json:"overall"`
	Components      map[Component]TrendDelta `json:"components"`
	Attribution     AttributionSummary       `json:"attribution"`
	Residue         ResidueSummary           `json:"residue"`
	Activity        ActivitySummary          `json:"activity"`
	Recommendations []string                 `json:"recommendations"`
}

// TrendDelta compares one score between the current snapshot and the
// prior-period baseline.
type TrendDelta struct {
	Current  float64        `json:"current"`
	Previous float64        `json:"previous"`
	Delta    float64        `json:"delta"`
	Trend    TrendDirection `json:"trend"`
	HasPrior bool           `json:"hasPrior"` // False when no snapshot precedes the period
}

// AttributionSummary rolls up the sibling graph artifact.
type AttributionSummary struct {
	Density          float64 `json:"density"`
	ContributorCount int     `json:"contributorCount"`
	ContentCount     int     `json:"contentCount"`
	LinkCount        int     `json:"linkCount"`
}

// ResidueSummary rolls up the sibling residue artifact.
type ResidueSummary struct {
	NewInPeriod int          `json:"newInPeriod"`
	Active      int          `json:"active"`
	Pending     int          `json:"pending"`
	Total       int          `json:"total"`
	Dominant    ResidueClass `json:"dominantClassification"`
}

// ActivitySummary counts repository activity within the period.
type ActivitySummary struct {
	Commits      int `json:"commits"`
	IssuesOpened int `json:"issuesOpened"`
	IssuesClosed int `json:"issuesClosed"`
	PRsOpened    int `json:"prsOpened"`
	Forks        int `json:"forks"`
}

/// Direction classifies a delta with the stable band: |delta| < band is
// stable, otherwise up or down.
func Direction(delta, band float64) TrendDirection {
	switch {
	case delta >= band:
		return TrendUp
	case delta <= -band:
		return TrendDown
	default:
		return TrendStable
	}
}
