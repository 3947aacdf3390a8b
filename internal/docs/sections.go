package docs

import (
	"regexp"
	"strings"

	"github.com/davidkimai/recursive-distill/schema"
)

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)

// SplitSections splits a document body on ATX headings. Text before the
// first heading becomes an untitled introduction section. Headings
// inside fenced code blocks are body text, not section breaks.
func SplitSections(body string) []schema.Section {
	var sections []schema.Section
	var title string
	var buf []string
	inFence := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if title == "" && text == "" && len(sections) == 0 {
			// Empty preamble, drop it.
			buf = buf[:0]
			return
		}
		sections = append(sections, schema.Section{Title: title, Body: text})
		buf = buf[:0]
	}

	for line := range strings.SplitSeq(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			buf = append(buf, line)
			continue
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				flush()
				title = m[2]
				continue
			}
		}
		buf = append(buf, line)
	}
	flush()

	if len(sections) == 0 {
		sections = append(sections, schema.Section{})
	}
	return sections
}
