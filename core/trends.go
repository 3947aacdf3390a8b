package core

import (
	"fmt"
	"time"

	"github.com/davidkimai/recursive-distill/core/ingest"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// BuildPeriodReport assembles the trend artifact for the window ending
// at now. The baseline is the most recent history snapshot strictly
// before the period start; without one every delta reports HasPrior
// false and a stable trend.
func BuildPeriodReport(cfg *contract.Config, history *schema.CoherenceHistory, current *schema.CoherenceReport, graph *schema.AttributionGraph, catalog *schema.ResidueCatalog, activity *ingest.Activity, now time.Time) *schema.PeriodReport {
	start := cfg.PeriodStart(now)
	prior, hasPrior := history.LatestBefore(start)

	report := &schema.PeriodReport{
		GeneratedAt: now,
		PeriodStart: start,
		PeriodEnd:   now,
		Overall:     trendDelta(current.OverallScore, prior.OverallScore, hasPrior, cfg.Params.StableBand),
		Components:  make(map[schema.Component]schema.TrendDelta, len(schema.AllComponents)),
		Attribution: attributionSummary(graph),
		Residue:     residueSummary(catalog, start, now),
		Activity:    activitySummary(activity, start, now),
	}
	for _, comp := range schema.AllComponents {
		report.Components[comp] = trendDelta(
			current.Components.ByComponent(comp),
			prior.Components.ByComponent(comp),
			hasPrior, cfg.Params.StableBand)
	}
	report.Recommendations = trendRecommendations(cfg, current, report)
	return report
}

// trendDelta compares one score against its prior-period baseline.
// Without a baseline the delta is zero and the trend is stable.
func trendDelta(current, previous float64, hasPrior bool, band float64) schema.TrendDelta {
	if !hasPrior {
		return schema.TrendDelta{Current: current, Trend: schema.TrendStable}
	}
	delta := current - previous
	return schema.TrendDelta{
		Current:  current,
		Previous: previous,
		Delta:    delta,
		Trend:    schema.Direction(delta, band),
		HasPrior: true,
	}
}

func attributionSummary(graph *schema.AttributionGraph) schema.AttributionSummary {
	return schema.AttributionSummary{
		Density:          graph.Metrics.Density,
		ContributorCount: graph.Metrics.ContributorCount,
		ContentCount:     graph.Metrics.ContentCount,
		LinkCount:        graph.Metrics.LinkCount,
	}
}

func residueSummary(catalog *schema.ResidueCatalog, start, end time.Time) schema.ResidueSummary {
	newInPeriod := 0
	for _, inst := range catalog.Instances {
		if !inst.Detected.Before(start) && !inst.Detected.After(end) {
			newInPeriod++
		}
	}
	return schema.ResidueSummary{
		NewInPeriod: newInPeriod,
		Active:      catalog.Aggregates.ByStatus[schema.ActiveResidue],
		Pending:     catalog.Aggregates.ByStatus[schema.PendingResidue],
		Total:       catalog.Aggregates.Total,
		Dominant:    catalog.Aggregates.Dominant,
	}
}

// activitySummary counts platform activity inside the period. Signals
// that were unavailable during collection contribute zero counts.
func activitySummary(activity *ingest.Activity, start, end time.Time) schema.ActivitySummary {
	summary := schema.ActivitySummary{
		Commits: activity.CommitsBetween(start, end),
	}
	if activity.Issues.Available() {
		for _, issue := range activity.Issues.Value() {
			if inPeriod(issue.CreatedAt, start, end) {
				summary.IssuesOpened++
			}
			if !issue.ClosedAt.IsZero() && inPeriod(issue.ClosedAt, start, end) {
				summary.IssuesClosed++
			}
		}
	}
	if activity.Pulls.Available() {
		for _, pull := range activity.Pulls.Value() {
			if inPeriod(pull.CreatedAt, start, end) {
				summary.PRsOpened++
			}
		}
	}
	if activity.Forks.Available() {
		summary.Forks = activity.Forks.Value()
	}
	return summary
}

func inPeriod(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}

// trendRecommendations aggregates period-level advice: stalled activity,
// unresolved feedback and any component sitting below the advisory
// threshold or moving downward.
func trendRecommendations(cfg *contract.Config, current *schema.CoherenceReport, report *schema.PeriodReport) []string {
	var recs []string
	if report.Activity.Commits == 0 {
		recs = append(recs, "No commits landed in the reporting period; confirm the repository is active or widen --window.")
	}
	if report.Activity.IssuesOpened > 0 && report.Activity.IssuesClosed == 0 {
		recs = append(recs, "Issues were opened but none closed this period; triage the backlog to keep feedback loops moving.")
	}
	threshold := cfg.Params.RecommendationThreshold
	for _, comp := range schema.AllComponents {
		delta := report.Components[comp]
		if delta.HasPrior && delta.Trend == schema.TrendDown {
			recs = append(recs, fmt.Sprintf("The %s score fell %.2f over the period; review documents changed since %s.",
				comp, -delta.Delta, report.PeriodStart.Format("2006-01-02")))
		}
		if current.Components.ByComponent(comp) < threshold {
			recs = append(recs, fmt.Sprintf("The %s score sits below %.2f; apply the report recommendations before the next publication.",
				comp, threshold))
		}
	}
	return recs
}
