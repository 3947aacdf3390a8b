package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkimai/recursive-distill/schema"
)

func TestExtractTopics(t *testing.T) {
	lex := schema.DefaultLexicons()
	params := schema.DefaultScoringParams()

	body := "Attention attention attention. Gradient gradient. Residual. The an of."
	topics := ExtractTopics(body, lex, params)

	require.Equal(t, []string{"attention", "gradient", "residual"}, topics)
}

func TestExtractTopicsTieBreak(t *testing.T) {
	topics := ExtractTopics("zebra apple zebra apple", schema.DefaultLexicons(), schema.DefaultScoringParams())
	assert.Equal(t, []string{"apple", "zebra"}, topics, "equal counts order alphabetically")
}

func TestExtractTopicsMinLength(t *testing.T) {
	params := schema.DefaultScoringParams()
	topics := ExtractTopics("map map map gradient", schema.DefaultLexicons(), params)
	assert.Equal(t, []string{"gradient"}, topics, "tokens under %d runes dropped", params.MinTokenLength)
}

func TestExtractTopicsStopwords(t *testing.T) {
	topics := ExtractTopics("there there there gradient", schema.DefaultLexicons(), schema.DefaultScoringParams())
	assert.Equal(t, []string{"gradient"}, topics)
}

func TestExtractTopicsLimit(t *testing.T) {
	params := schema.DefaultScoringParams()
	var sb strings.Builder
	for _, w := range []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliet", "kilo", "lima",
	} {
		sb.WriteString(w + " ")
	}

	topics := ExtractTopics(sb.String(), schema.DefaultLexicons(), params)
	assert.Len(t, topics, params.TopicLimit)
}

func TestExtractTopicsEmpty(t *testing.T) {
	assert.Nil(t, ExtractTopics("", schema.DefaultLexicons(), schema.DefaultScoringParams()))
	assert.Nil(t, ExtractTopics("the of an", schema.DefaultLexicons(), schema.DefaultScoringParams()))
}

func TestTopicOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected float64
	}{
		{"identical", []string{"x", "y"}, []string{"x", "y"}, 1.0},
		{"disjoint", []string{"x"}, []string{"y"}, 0.0},
		{"partial", []string{"x", "y"}, []string{"y", "z"}, 1.0 / 3.0},
		{"both empty", nil, nil, 1.0},
		{"one empty", []string{"x"}, nil, 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, TopicOverlap(tc.a, tc.b), 1e-9)
		})
	}
}
