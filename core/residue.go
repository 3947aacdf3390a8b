package core

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/davidkimai/recursive-distill/core/ingest"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/docs"
	"github.com/davidkimai/recursive-distill/schema"
	"github.com/google/uuid"
)

// Classifier scans document and discussion text for residue through
// three channels: author-declared metadata entries, sentinel-marked
// spans, and unmarked linguistic patterns.
type Classifier struct {
	lex       schema.Lexicons
	detectors []*regexp.Regexp
}

// NewClassifier compiles the pattern channel. Pattern sources are
// validated at config time, so compilation cannot fail here.
func NewClassifier(cfg *contract.Config) *Classifier {
	c := &Classifier{lex: cfg.Lexicons}
	for _, d := range cfg.Lexicons.PatternDetectors {
		c.detectors = append(c.detectors, regexp.MustCompile(d.Pattern))
	}
	return c
}

// Scan produces one run's residue instances: declared entries first,
// then per-section sentinel spans and pattern matches, then pattern
// matches over the platform discussion. Instances carry no id; ids are
// assigned at first catalog insertion.
func (c *Classifier) Scan(documents []schema.Document, activity *ingest.Activity, now time.Time) []schema.ResidueInstance {
	var instances []schema.ResidueInstance
	for _, doc := range documents {
		instances = append(instances, c.declaredInstances(doc, now)...)
		for _, section := range doc.Sections {
			body, spans := c.sentinelSpans(section.Body)
			for _, span := range spans {
				instances = append(instances, c.spanInstance(span, section.Title, doc.Path, now))
			}
			instances = append(instances, c.patternInstances(body, section.Title, doc.Path, now)...)
		}
	}
	return append(instances, c.discussionInstances(activity, now)...)
}

// declaredInstances turns front matter residue entries into active,
// author-reported instances, filling undeclared fields by the same
// classification rules as scanned text.
func (c *Classifier) declaredInstances(doc schema.Document, now time.Time) []schema.ResidueInstance {
	var out []schema.ResidueInstance
	for _, entry := range doc.FrontMatter.Residue {
		description := strings.TrimSpace(entry.Description)
		if description == "" {
			continue
		}
		class := entry.Classification
		if _, ok := schema.ValidResidueClasses[class]; !ok {
			class = c.voteClass(description)
		}
		valence := entry.Valence
		if valence == "" {
			valence = schema.NeutralValence
		}
		depth := entry.Depth
		if depth == "" {
			depth = c.classifyDepth(description)
		}
		failure := entry.FailureMode
		if failure == "" {
			failure = schema.FailureModeFor(class)
		}
		out = append(out, schema.ResidueInstance{
			Classification: class,
			Description:    description,
			Section:        entry.Section,
			FailureMode:    failure,
			RecursiveDepth: depth,
			Valence:        valence,
			Detected:       now.UTC(),
			Reporter:       schema.AuthorReporter,
			Source:         doc.Path,
			Status:         schema.ActiveResidue,
		})
	}
	return out
}

// sentinelSpans extracts the text between the configured start and end
// markers and returns the body with those spans removed, so the pattern
// channel does not re-report author-flagged text. An unclosed marker
// spans to the end of the section.
func (c *Classifier) sentinelSpans(body string) (string, []string) {
	start, end := c.lex.ResidueStart, c.lex.ResidueEnd
	if start == "" || end == "" {
		return body, nil
	}

	var spans []string
	var rest strings.Builder
	remaining := body
	for {
		i := strings.Index(remaining, start)
		if i < 0 {
			rest.WriteString(remaining)
			break
		}
		rest.WriteString(remaining[:i])
		remaining = remaining[i+len(start):]
		j := strings.Index(remaining, end)
		if j < 0 {
			spans = append(spans, strings.TrimSpace(remaining))
			break
		}
		spans = append(spans, strings.TrimSpace(remaining[:j]))
		remaining = remaining[j+len(end):]
	}

	kept := spans[:0]
	for _, span := range spans {
		if span != "" {
			kept = append(kept, span)
		}
	}
	return rest.String(), kept
}

// spanInstance classifies one sentinel-marked span. Self-flagged spans
// are active and positive: the author surfaced the gap deliberately.
func (c *Classifier) spanInstance(span, section, source string, now time.Time) schema.ResidueInstance {
	class := c.voteClass(span)
	return schema.ResidueInstance{
		Classification: class,
		Description:    span,
		Section:        section,
		FailureMode:    schema.FailureModeFor(class),
		RecursiveDepth: c.classifyDepth(span),
		Valence:        schema.PositiveValence,
		Detected:       now.UTC(),
		Reporter:       schema.AuthorReporter,
		Source:         source,
		Status:         schema.ActiveResidue,
	}
}

// patternInstances runs the detector channel over each sentence. The
// first matching detector in declaration order claims the sentence;
// matches are pending until a reviewer confirms them.
func (c *Classifier) patternInstances(text, section, source string, now time.Time) []schema.ResidueInstance {
	var out []schema.ResidueInstance
	for _, sentence := range docs.Sentences(text) {
		for i, detector := range c.detectors {
			if !detector.MatchString(sentence) {
				continue
			}
			d := c.lex.PatternDetectors[i]
			out = append(out, schema.ResidueInstance{
				Classification: d.Class,
				Description:    strings.TrimSpace(sentence),
				Section:        section,
				FailureMode:    d.Name,
				RecursiveDepth: c.classifyDepth(sentence),
				Valence:        schema.NeutralValence,
				Detected:       now.UTC(),
				Reporter:       schema.SystemReporter,
				Source:         source,
				Status:         schema.PendingResidue,
			})
			break
		}
	}
	return out
}

// discussionInstances runs the pattern channel over review and comment
// text. Unavailable signals are simply skipped; the scorer already
// reports the degradation.
func (c *Classifier) discussionInstances(activity *ingest.Activity, now time.Time) []schema.ResidueInstance {
	if activity == nil {
		return nil
	}
	var out []schema.ResidueInstance
	if activity.IssueComments.Available() {
		for _, comment := range activity.IssueComments.Value() {
			ref := ingest.IssueRef(comment.Number)
			out = append(out, c.patternInstances(comment.Body, ref, ref, now)...)
		}
	}
	if activity.PullComments.Available() {
		for _, comment := range activity.PullComments.Value() {
			ref := ingest.PullRef(comment.Number)
			out = append(out, c.patternInstances(comment.Body, ref, ref, now)...)
		}
	}
	if activity.Reviews.Available() {
		reviews := activity.Reviews.Value()
		for _, number := range slices.Sorted(maps.Keys(reviews)) {
			ref := ingest.PullRef(number)
			for _, review := range reviews[number] {
				out = append(out, c.patternInstances(review.Body, ref, ref, now)...)
			}
		}
	}
	return out
}

// voteClass classifies free text by keyword vote: most class-lexicon
// hits wins, ties resolve toward declaration order, an all-zero vote
// defaults to linguistic uncertainty.
func (c *Classifier) voteClass(text string) schema.ResidueClass {
	lowered := strings.ToLower(text)
	best := schema.LinguisticUncertainty
	bestHits := 0
	for _, class := range schema.AllResidueClasses {
		hits := 0
		for _, keyword := range c.lex.ClassKeywords[class] {
			hits += strings.Count(lowered, keyword)
		}
		if hits > bestHits {
			best, bestHits = class, hits
		}
	}
	return best
}

// classifyDepth maps depth-marker hits onto the three-level scale.
func (c *Classifier) classifyDepth(text string) schema.ResidueDepth {
	lowered := strings.ToLower(text)
	for _, marker := range c.lex.FoundationalMarkers {
		if strings.Contains(lowered, marker) {
			return schema.DeepDepth
		}
	}
	for _, marker := range c.lex.ExplanatoryMarkers {
		if strings.Contains(lowered, marker) {
			return schema.IntermediateDepth
		}
	}
	return schema.SurfaceDepth
}

// MergeCatalog folds scanned instances into the persisted catalog,
// dropping any whose (description, section) identity is already
// cataloged. New instances receive their id at insertion; existing
// entries keep their id and status untouched. Returns the number added.
func MergeCatalog(catalog *schema.ResidueCatalog, instances []schema.ResidueInstance) int {
	seen := make(map[schema.ResidueKey]struct{}, len(catalog.Instances))
	for _, inst := range catalog.Instances {
		seen[inst.Key()] = struct{}{}
	}

	added := 0
	for _, inst := range instances {
		key := inst.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		inst.ID = uuid.NewString()
		catalog.Instances = append(catalog.Instances, inst)
		added++
	}
	catalog.Recount()
	return added
}

// ResolveInstance marks one cataloged instance resolved, the reviewer
// action closing out a flagged gap.
func ResolveInstance(catalog *schema.ResidueCatalog, id string) error {
	for i := range catalog.Instances {
		if catalog.Instances[i].ID != id {
			continue
		}
		catalog.Instances[i].Status = schema.ResolvedResidue
		catalog.Recount()
		return nil
	}
	return fmt.Errorf("no residue instance with id %q", id)
}
