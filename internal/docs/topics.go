package docs

import (
	"sort"

	"github.com/davidkimai/recursive-distill/schema"
)

// ExtractTopics returns the most frequent non-stopword tokens of a
// section body, capped at the configured topic limit. Ties break
// alphabetically so equal bodies always yield equal topic sets.
func ExtractTopics(body string, lex schema.Lexicons, params schema.ScoringParams) []string {
	stop := make(map[string]struct{}, len(lex.Stopwords))
	for _, w := range lex.Stopwords {
		stop[w] = struct{}{}
	}

	counts := make(map[string]int)
	for _, token := range Tokenize(body) {
		if len([]rune(token)) < params.MinTokenLength {
			continue
		}
		if _, ok := stop[token]; ok {
			continue
		}
		counts[token]++
	}
	if len(counts) == 0 {
		return nil
	}

	topics := make([]string, 0, len(counts))
	for token := range counts {
		topics = append(topics, token)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})

	if len(topics) > params.TopicLimit {
		topics = topics[:params.TopicLimit]
	}
	return topics
}

// TopicOverlap computes the Jaccard similarity of two topic sets.
// Two empty sets overlap completely.
func TopicOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		union[t] = struct{}{}
	}
	intersection := 0
	for _, t := range b {
		if _, ok := setA[t]; ok {
			intersection++
		}
		union[t] = struct{}{}
	}
	return float64(intersection) / float64(len(union))
}
