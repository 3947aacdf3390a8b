package core

import (
	"fmt"
	"regexp"

	"github.com/davidkimai/recursive-distill/internal/docs"
	"github.com/davidkimai/recursive-distill/schema"
)

// Remediation strings for low signal alignment factors.
const (
	remedyCitationDensity = "Add citation markers; the density target is one citation every two paragraphs."
	remedyClaimSupport    = "Back assertive claims with a citation in the same or the following sentence."
	remedyDataIntegrity   = "Include supporting data such as tables, figures or named datasets."
	remedyCodeResult      = "Include code blocks or explicit output/result markers for computational claims."
)

// signalFactors measures how well textual assertions are backed by
// citations, data and code results.
func (s *Scorer) signalFactors(documents []schema.Document) []schema.FactorScore {
	weights := s.cfg.Params.SignalWeights
	return []schema.FactorScore{
		s.citationDensityFactor(documents, weights.CitationDensity),
		s.claimSupportFactor(documents, weights.ClaimSupport),
		s.presenceFactor("data-integrity", documents, s.data, weights.DataIntegrity, "data markers", remedyDataIntegrity),
		s.presenceFactor("code-result", documents, s.code, weights.CodeResult, "code or result markers", remedyCodeResult),
	}
}

// citationDensityFactor scores citations per paragraph against the
// configured target density, saturating at one.
func (s *Scorer) citationDensityFactor(documents []schema.Document, weight float64) schema.FactorScore {
	const name = "citation-density"
	var citations, paragraphs int
	for _, doc := range documents {
		body := doc.Body()
		paragraphs += len(docs.Paragraphs(body))
		citations += countMatches(s.citations, body)
	}
	if paragraphs == 0 {
		return s.neutralFactor(name, weight, "no paragraphs found", remedyCitationDensity)
	}

	density := float64(citations) / float64(paragraphs)
	target := s.cfg.Params.CitationTarget
	score := 1.0
	if density < target {
		score = clamp01(density / target)
	}
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d citations over %d paragraphs, density %.2f against target %.2f)",
			score, citations, paragraphs, density, target),
		Remedy: remedyCitationDensity,
	}
}

// claimSupportFactor scores the rate of claim sentences left without a
// citation in the claim itself or the sentence right after it. The
// penalized rate collapses the score once half the claims lack support.
func (s *Scorer) claimSupportFactor(documents []schema.Document, weight float64) schema.FactorScore {
	const name = "claim-support"
	var claims, unsupported int
	for _, doc := range documents {
		sentences := docs.Sentences(doc.Body())
		for i, sentence := range sentences {
			if s.claims == nil || !s.claims.MatchString(sentence) {
				continue
			}
			claims++
			if matchAny(s.citations, sentence) {
				continue
			}
			if i+1 < len(sentences) && matchAny(s.citations, sentences[i+1]) {
				continue
			}
			unsupported++
		}
	}
	if claims == 0 {
		return s.neutralFactor(name, weight, "no claim sentences found", remedyClaimSupport)
	}

	rate := float64(unsupported) / float64(claims)
	score := clamp01(1 - min(1, s.cfg.Params.UnsupportedPenalty*rate))
	return schema.FactorScore{
		Name:   name,
		Score:  score,
		Weight: weight,
		Detail: fmt.Sprintf("%.2f (%d of %d claims unsupported)", score, unsupported, claims),
		Remedy: remedyClaimSupport,
	}
}

// presenceFactor scores one when any document body carries one of the
// given markers, zero otherwise.
func (s *Scorer) presenceFactor(name string, documents []schema.Document, matchers []*regexp.Regexp, weight float64, label, remedy string) schema.FactorScore {
	for _, doc := range documents {
		if matchAny(matchers, doc.Body()) {
			return schema.FactorScore{
				Name:   name,
				Score:  1,
				Weight: weight,
				Detail: fmt.Sprintf("1.00 (%s present)", label),
				Remedy: remedy,
			}
		}
	}
	return schema.FactorScore{
		Name:   name,
		Score:  0,
		Weight: weight,
		Detail: fmt.Sprintf("0.00 (no %s found)", label),
		Remedy: remedy,
	}
}
