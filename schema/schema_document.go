package schema

import "strings"

// Document represents one parsed text document: front matter metadata
// plus the body split into heading-delimited sections. Documents are
// rebuilt fully on each run, never mutated incrementally.
type Document struct {
	Path        string      // Path relative to the docs root
	FrontMatter FrontMatter // Declared metadata, zero value when absent
	Sections    []Section   // Ordered as they appear in the body
}

// FrontMatter holds the declared metadata fields of a document.
type FrontMatter struct {
	Title     string            // Document title
	Tags      []string          // Topic tags
	Scope     []string          // Declared scope terms
	Residue   []DeclaredResidue // Author self-reported residue entries
	Recursion Recursion         // Declared recursion metadata
}

// Recursion holds the recursion metadata block of the front matter.
type Recursion struct {
	Depth int // Declared recursive depth, 0 when undeclared
}

// DeclaredResidue is an author self-reported residue entry from front
// matter. Only Description is required; the classifier fills the rest.
type DeclaredResidue struct {
	Description    string
	Section        string
	Classification ResidueClass   // Optional, classified by keyword vote when empty
	Valence        ResidueValence // Optional, defaults to neutral
	Depth          ResidueDepth   // Optional, derived from depth markers when empty
	FailureMode    string         // Optional machine label
}

// Section represents one heading-delimited slice of a document body.
type Section struct {
	Title           string   // Heading text, empty for the preamble
	Body            string   // Raw body text of the section
	ExtractedTopics []string // Top frequent non-stopword tokens, sorted
}

// Body returns the concatenated body text of every section.
func (d *Document) Body() string {
	var sb strings.Builder
	for i, s := range d.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Body)
	}
	return sb.String()
}

// DeclaredScopeTerms returns the scope vocabulary the document declares:
// the union of tags and scope fields. Empty when neither is declared.
func (d *Document) DeclaredScopeTerms() []string {
	terms := make([]string, 0, len(d.FrontMatter.Tags)+len(d.FrontMatter.Scope))
	seen := make(map[string]struct{})
	for _, t := range d.FrontMatter.Tags {
		if _, ok := seen[t]; !ok && t != "" {
			seen[t] = struct{}{}
			terms = append(terms, t)
		}
	}
	for _, t := range d.FrontMatter.Scope {
		if _, ok := seen[t]; !ok && t != "" {
			seen[t] = struct{}{}
			terms = append(terms, t)
		}
	}
	return terms
}
