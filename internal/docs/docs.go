// Package docs loads markdown documents: front matter metadata, heading
// sectioning and per-section topic extraction. Everything downstream of
// the filesystem works on schema.Document values.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// ErrNoDocuments is returned when the docs root holds no markdown
// documents at all. This is a fatal input condition for a run.
var ErrNoDocuments = errors.New("no documents found under docs root")

// Loader walks a docs root and parses every markdown document in it.
type Loader struct {
	root     string
	excludes []string
	lexicons schema.Lexicons
	params   schema.ScoringParams
}

// NewLoader creates a loader for the configured docs root.
func NewLoader(cfg *contract.Config) *Loader {
	return &Loader{
		root:     cfg.DocsDir,
		excludes: cfg.Excludes,
		lexicons: cfg.Lexicons,
		params:   cfg.Params,
	}
}

// Load parses all markdown documents under the root, sorted by path for
// deterministic downstream processing. It fails when the root cannot be
// walked or contains no documents.
func (l *Loader) Load() ([]schema.Document, error) {
	var paths []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(l.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && contract.ShouldIgnore(rel+"/", l.excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if contract.ShouldIgnore(rel, l.excludes) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk docs root %q: %w", l.root, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocuments, l.root)
	}
	sort.Strings(paths)

	documents := make([]schema.Document, 0, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read document %q: %w", rel, err)
		}
		documents = append(documents, l.Parse(rel, data))
	}
	return documents, nil
}

// Parse turns one raw markdown file into a schema.Document. Front
// matter that fails to decode degrades to body-only parsing with a
// warning rather than failing the run.
func (l *Loader) Parse(path string, data []byte) schema.Document {
	meta, body, err := SplitFrontMatter(data)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("parsing front matter of %s", path), err)
		meta = schema.FrontMatter{}
	}

	sections := SplitSections(string(body))
	for i := range sections {
		sections[i].ExtractedTopics = ExtractTopics(sections[i].Body, l.lexicons, l.params)
	}

	return schema.Document{
		Path:        path,
		FrontMatter: meta,
		Sections:    sections,
	}
}
