package core

import (
	"fmt"
	"strings"

	"github.com/davidkimai/recursive-distill/internal/docs"
	"github.com/davidkimai/recursive-distill/schema"
)

// Remediation strings for low bounded integrity factors.
const (
	remedyScopeCoverage   = "Cover every declared scope term in the body, or trim the declared scope."
	remedyTopicFocus      = "Refocus drifting sections on the main topics, or split them into separate documents."
	remedyTermConsistency = "Use one term per concept consistently across sections."
	remedyMethodBoundary  = "Keep methodological claims inside the declared method boundary."
)

// boundedFactors measures adherence to the declared scope and
// terminology of the documents.
func (s *Scorer) boundedFactors(documents []schema.Document) []schema.FactorScore {
	weights := s.cfg.Params.BoundedWeights
	return []schema.FactorScore{
		s.scopeCoverageFactor(documents, weights.ScopeCoverage),
		s.topicFocusFactor(documents, weights.TopicFocus),
		stubFactor("term-consistency", s.cfg.Params.StubFactors.TermConsistency, weights.TermConsistency, remedyTermConsistency),
		stubFactor("method-boundary", s.cfg.Params.StubFactors.MethodBoundary, weights.MethodBoundary, remedyMethodBoundary),
	}
}

// scopeCoverageFactor scores the share of scope terms appearing in body
// text. Scope terms come from declared tags and scope fields, falling
// back to terms extracted from the title and introduction.
func (s *Scorer) scopeCoverageFactor(documents []schema.Document, weight float64) schema.FactorScore {
	const name = "scope-coverage"
	var covered, total int
	for _, doc := range documents {
		terms := doc.DeclaredScopeTerms()
		if len(terms) == 0 {
			terms = s.extractedScopeTerms(doc)
		}
		if len(terms) == 0 {
			continue
		}
		body := strings.ToLower(doc.Body())
		for _, term := range terms {
			total++
			if strings.Contains(body, strings.ToLower(term)) {
				covered++
			}
		}
	}
	if total == 0 {
		return s.neutralFactor(name, weight, "no scope terms declared or extractable", remedyScopeCoverage)
	}

	score := clamp01(float64(covered) / float64(total))
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d scope terms covered)", score, covered, total),
		Remedy: remedyScopeCoverage,
	}
}

// topicFocusFactor scores section cohesion against the document's main
// topic set. A configured share of drift is tolerated before the score
// drops.
func (s *Scorer) topicFocusFactor(documents []schema.Document, weight float64) schema.FactorScore {
	const name = "topic-focus"
	var cohesive, total int
	for _, doc := range documents {
		main := s.mainTopics(doc)
		for _, section := range doc.Sections {
			total++
			if docs.TopicOverlap(section.ExtractedTopics, main) >= s.cfg.Params.CohesionMinimum {
				cohesive++
			}
		}
	}
	if total == 0 {
		return s.neutralFactor(name, weight, "no sections found", remedyTopicFocus)
	}

	drift := 1 - float64(cohesive)/float64(total)
	score := clamp01(1 - s.cfg.Params.DriftPenalty*drift)
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d sections cohesive, drift %.2f)", score, cohesive, total, drift),
		Remedy: remedyTopicFocus,
	}
}

// extractedScopeTerms derives scope terms for documents that declare
// none, from the title and the introduction section.
func (s *Scorer) extractedScopeTerms(doc schema.Document) []string {
	source := doc.FrontMatter.Title
	if len(doc.Sections) > 0 {
		source += "\n" + doc.Sections[0].Body
	}
	return docs.ExtractTopics(source, s.cfg.Lexicons, s.cfg.Params)
}

// mainTopics builds the document's main topic set from its title and
// tags, falling back to the introduction topics when neither yields a
// term.
func (s *Scorer) mainTopics(doc schema.Document) []string {
	source := doc.FrontMatter.Title + "\n" + strings.Join(doc.FrontMatter.Tags, "\n")
	topics := docs.ExtractTopics(source, s.cfg.Lexicons, s.cfg.Params)
	if len(topics) == 0 && len(doc.Sections) > 0 {
		topics = doc.Sections[0].ExtractedTopics
	}
	return topics
}
