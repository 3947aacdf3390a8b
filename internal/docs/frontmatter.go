package docs

import (
	"bytes"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/davidkimai/recursive-distill/schema"
)

var (
	yamlFence = []byte("---")
	tomlFence = []byte("+++")
)

// metaDoc is the decode target for front matter in either format.
type metaDoc struct {
	Title     string         `yaml:"title" toml:"title"`
	Tags      flexStrings    `yaml:"tags" toml:"tags"`
	Scope     flexStrings    `yaml:"scope" toml:"scope"`
	Residue   []residueEntry `yaml:"residue" toml:"residue"`
	Recursion recursionMeta  `yaml:"recursion" toml:"recursion"`
}

type recursionMeta struct {
	Depth int `yaml:"depth" toml:"depth"`
}

// residueEntry accepts either a bare description string or a full
// mapping. The string form is common in hand-written front matter.
type residueEntry struct {
	Description    string `yaml:"description" toml:"description"`
	Section        string `yaml:"section" toml:"section"`
	Classification string `yaml:"classification" toml:"classification"`
	Valence        string `yaml:"valence" toml:"valence"`
	Depth          string `yaml:"depth" toml:"depth"`
	FailureMode    string `yaml:"failure_mode" toml:"failure_mode"`
}

// UnmarshalYAML lets a scalar node stand in for {description: ...}.
func (r *residueEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.Description = value.Value
		return nil
	}
	type plain residueEntry
	return value.Decode((*plain)(r))
}

// flexStrings accepts either a single scalar or a sequence of scalars.
type flexStrings []string

// UnmarshalYAML lets "tags: coherence" mean the same as a one-item list.
func (f *flexStrings) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*f = flexStrings{value.Value}
		return nil
	}
	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*f = items
	return nil
}

// SplitFrontMatter separates declared metadata from the document body.
// YAML lives between --- fences, TOML between +++ fences; a document
// without an opening fence on its first line has no front matter. An
// opening fence without a closing one is a decode error.
func SplitFrontMatter(data []byte) (schema.FrontMatter, []byte, error) {
	var fence []byte
	switch {
	case hasFenceLine(data, yamlFence):
		fence = yamlFence
	case hasFenceLine(data, tomlFence):
		fence = tomlFence
	default:
		return schema.FrontMatter{}, data, nil
	}

	rest := data[len(fence):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	}

	end := findClosingFence(rest, fence)
	if end.metaEnd < 0 {
		return schema.FrontMatter{}, data, fmt.Errorf("front matter opened with %q but never closed", fence)
	}

	meta := rest[:end.metaEnd]
	body := rest[end.bodyStart:]

	var decoded metaDoc
	var err error
	if bytes.Equal(fence, yamlFence) {
		err = yaml.Unmarshal(meta, &decoded)
	} else {
		err = toml.Unmarshal(meta, &decoded)
	}
	if err != nil {
		return schema.FrontMatter{}, body, fmt.Errorf("decode front matter: %w", err)
	}

	return toFrontMatter(decoded), body, nil
}

// fenceSpan locates the closing fence within the metadata block.
type fenceSpan struct {
	metaEnd   int
	bodyStart int
}

func hasFenceLine(data, fence []byte) bool {
	if !bytes.HasPrefix(data, fence) {
		return false
	}
	rest := data[len(fence):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	return len(rest) == 0 || rest[0] == '\n'
}

// findClosingFence returns the span of the closing fence line, or a
// negative span when the fence never closes. The fence must sit alone
// on its own line.
func findClosingFence(rest, fence []byte) fenceSpan {
	offset := 0
	for offset <= len(rest) {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		next := len(rest)
		if lineEnd >= 0 {
			line = rest[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		} else {
			line = rest[offset:]
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), fence) {
			return fenceSpan{metaEnd: offset, bodyStart: next}
		}
		if lineEnd < 0 {
			break
		}
		offset = next
	}
	return fenceSpan{metaEnd: -1, bodyStart: -1}
}

func toFrontMatter(m metaDoc) schema.FrontMatter {
	fm := schema.FrontMatter{
		Title:     m.Title,
		Tags:      m.Tags,
		Scope:     m.Scope,
		Recursion: schema.Recursion{Depth: m.Recursion.Depth},
	}
	for _, r := range m.Residue {
		if r.Description == "" {
			continue
		}
		fm.Residue = append(fm.Residue, schema.DeclaredResidue{
			Description:    r.Description,
			Section:        r.Section,
			Classification: schema.ResidueClass(r.Classification),
			Valence:        schema.ResidueValence(r.Valence),
			Depth:          schema.ResidueDepth(r.Depth),
			FailureMode:    r.FailureMode,
		})
	}
	return fm
}
