package docs

import (
	"strings"
	"unicode"
)

// Paragraphs splits text into paragraphs on blank lines. Whitespace-only
// lines count as blank; empty paragraphs are dropped.
func Paragraphs(text string) []string {
	var paragraphs []string
	var buf []string

	flush := func() {
		p := strings.TrimSpace(strings.Join(buf, "\n"))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
		buf = buf[:0]
	}

	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return paragraphs
}

// Sentences splits text into sentences on terminal punctuation followed
// by whitespace. Abbreviation handling is deliberately naive; the
// factors that consume sentences tolerate over-splitting.
func Sentences(text string) []string {
	var sentences []string
	var sb strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		sb.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			sentences = append(sentences, s)
		}
		sb.Reset()
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Tokenize lowercases text and splits it into letter-or-digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
