package core

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/davidkimai/recursive-distill/core/ingest"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// Scorer computes coherence reports from parsed documents and collected
// activity. All tunables come from the injected configuration; the
// scorer holds no ambient state.
type Scorer struct {
	cfg *contract.Config

	citations []*regexp.Regexp
	data      []*regexp.Regexp
	code      []*regexp.Regexp
	claims    *regexp.Regexp
	feedback  *regexp.Regexp
	issueRefs *regexp.Regexp
}

// NewScorer compiles the configured lexicons into matchers. Pattern
// sources are validated during configuration processing, so compilation
// here does not fail.
func NewScorer(cfg *contract.Config) *Scorer {
	return &Scorer{
		cfg:       cfg,
		citations: compilePatterns(cfg.Lexicons.CitationPatterns),
		data:      compilePatterns(cfg.Lexicons.DataMarkers),
		code:      compilePatterns(cfg.Lexicons.CodeMarkers),
		claims:    compileWords(cfg.Lexicons.AssertionVerbs, true),
		feedback:  compileWords(cfg.Lexicons.FeedbackTerms, false),
		issueRefs: regexp.MustCompile(cfg.Lexicons.IssueRefPattern),
	}
}

// Score produces the coherence report for one run. The report metadata
// records now as the run start.
func (s *Scorer) Score(documents []schema.Document, activity *ingest.Activity, now time.Time) *schema.CoherenceReport {
	factors := map[schema.Component][]schema.FactorScore{
		schema.SignalComponent:   s.signalFactors(documents),
		schema.FeedbackComponent: s.feedbackFactors(activity),
		schema.BoundedComponent:  s.boundedFactors(documents),
		schema.ElasticComponent:  s.elasticFactors(),
	}

	var components schema.ComponentScores
	details := make(map[schema.Component][]string, len(factors))
	for _, comp := range schema.AllComponents {
		components.Set(comp, blendFactors(factors[comp]))
		for _, factor := range factors[comp] {
			details[comp] = append(details[comp], fmt.Sprintf("%s: %s", factor.Name, factor.Detail))
		}
	}

	return &schema.CoherenceReport{
		OverallScore:    combineComponents(components, s.cfg.Params.ComponentWeights),
		Components:      components,
		Details:         details,
		Recommendations: recommendFixes(factors, components, s.cfg.Params.RecommendationThreshold),
		Metadata: schema.ReportMetadata{
			Timestamp:      now.UTC(),
			Revision:       activity.HeadRevision,
			RecursiveDepth: maxRecursionDepth(documents),
		},
	}
}

// blendFactors combines factor scores into one component score using
// their declared weights, normalized so overridden weights that do not
// sum to one still land in [0,1].
func blendFactors(factors []schema.FactorScore) float64 {
	var weighted, total float64
	for _, factor := range factors {
		weighted += factor.Weight * factor.Score
		total += factor.Weight
	}
	if total == 0 {
		return 0
	}
	return clamp01(weighted / total)
}

// combineComponents folds the four component scores into the overall
// coherence via a weighted geometric mean. A component at zero zeroes
// the overall score regardless of the other three. Components missing
// from the weight map carry weight one.
func combineComponents(components schema.ComponentScores, weights map[schema.Component]float64) float64 {
	product := 1.0
	var total float64
	for _, comp := range schema.AllComponents {
		weight := 1.0
		if w, ok := weights[comp]; ok && w > 0 {
			weight = w
		}
		score := components.ByComponent(comp)
		if score == 0 {
			return 0
		}
		product *= math.Pow(score, weight)
		total += weight
	}
	return clamp01(math.Pow(product, 1/total))
}

// recommendFixes emits one remediation per low factor of each low
// component. Ordering follows component and factor declaration order,
// not severity.
func recommendFixes(factors map[schema.Component][]schema.FactorScore, components schema.ComponentScores, threshold float64) []string {
	var recommendations []string
	for _, comp := range schema.AllComponents {
		if components.ByComponent(comp) >= threshold {
			continue
		}
		for _, factor := range factors[comp] {
			if factor.Score < threshold && factor.Remedy != "" {
				recommendations = append(recommendations, factor.Remedy)
			}
		}
	}
	return recommendations
}

// maxRecursionDepth returns the deepest declared recursion across the
// documents, never less than one.
func maxRecursionDepth(documents []schema.Document) int {
	depth := 1
	for _, doc := range documents {
		if d := doc.FrontMatter.Recursion.Depth; d > depth {
			depth = d
		}
	}
	return depth
}

// neutralFactor substitutes the configured neutral score for a factor
// whose data source was empty or unavailable, recording the reason in
// the detail string.
func (s *Scorer) neutralFactor(name string, weight float64, reason, remedy string) schema.FactorScore {
	neutral := s.cfg.Params.NeutralScore
	return schema.FactorScore{
		Name:     name,
		Score:    neutral,
		Weight:   weight,
		Detail:   fmt.Sprintf("neutral %.2f (%s)", neutral, reason),
		Degraded: true,
		Remedy:   remedy,
	}
}

// stubFactor is a placeholder factor pending a real analyzer. The score
// is a configured constant, marked as such in the detail string.
func stubFactor(name string, score, weight float64, remedy string) schema.FactorScore {
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (static default)", score),
		Remedy: remedy,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		matchers = append(matchers, regexp.MustCompile(pattern))
	}
	return matchers
}

// compileWords builds one case-insensitive matcher for a word list.
// wholeWord anchors the match end so only exact lexicon forms count;
// without it, suffixed forms like "addressed" still match "address".
// An empty list yields nil, and a nil matcher matches nothing.
func compileWords(words []string, wholeWord bool) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, word := range words {
		if word = strings.TrimSpace(word); word != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(word)))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	pattern := `(?i)\b(` + strings.Join(quoted, "|") + `)`
	if wholeWord {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func matchAny(matchers []*regexp.Regexp, text string) bool {
	for _, matcher := range matchers {
		if matcher.MatchString(text) {
			return true
		}
	}
	return false
}

func countMatches(matchers []*regexp.Regexp, text string) int {
	count := 0
	for _, matcher := range matchers {
		count += len(matcher.FindAllStringIndex(text, -1))
	}
	return count
}
