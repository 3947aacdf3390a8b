package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkimai/recursive-distill/schema"
)

const sampleLog = `--abc123|Mila K|mila@example.com|2026-03-01T10:00:00+00:00|expand methods section
12	3	docs/methods.md
5	0	docs/intro.md

--def456|Amir R|amir@example.com|2026-03-02T11:30:00+02:00|fix typo
1	1	docs/intro.md
`

func TestParseRevisionLog(t *testing.T) {
	revisions := ParseRevisionLog([]byte(sampleLog), nil)
	require.Len(t, revisions, 2)

	first := revisions[0]
	assert.Equal(t, "abc123", first.Hash)
	assert.Equal(t, "Mila K", first.Author)
	assert.Equal(t, "mila@example.com", first.Email)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, "expand methods section", first.Message)
	require.Len(t, first.FileDeltas, 2)
	assert.Equal(t, schema.FileDelta{Path: "docs/methods.md", Additions: 12, Deletions: 3}, first.FileDeltas[0])
	assert.Equal(t, schema.FileDelta{Path: "docs/intro.md", Additions: 5, Deletions: 0}, first.FileDeltas[1])

	second := revisions[1]
	assert.Equal(t, "def456", second.Hash)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), second.Timestamp, "offsets normalize to UTC")
	require.Len(t, second.FileDeltas, 1)
}

func TestParseRevisionLogEmpty(t *testing.T) {
	assert.Empty(t, ParseRevisionLog(nil, nil))
	assert.Empty(t, ParseRevisionLog([]byte("\n\n"), nil))
}

func TestParseRevisionLogBinaryDelta(t *testing.T) {
	log := "--abc|A|a@x.io|2026-03-01T10:00:00Z|add logo\n-\t-\tassets/logo.png\n"

	revisions := ParseRevisionLog([]byte(log), nil)
	require.Len(t, revisions, 1)
	require.Len(t, revisions[0].FileDeltas, 1)

	delta := revisions[0].FileDeltas[0]
	assert.Equal(t, 0, delta.Additions)
	assert.Equal(t, 0, delta.Deletions)
	assert.Equal(t, 1.0, delta.ChangedLines(), "binary deltas still weigh one line")
}

func TestParseRevisionLogRenames(t *testing.T) {
	tests := []struct {
		name     string
		statPath string
		expected string
	}{
		{"plain rename", "docs/old.md => docs/new.md", "docs/new.md"},
		{"braced rename", "docs/{drafts => final}/analysis.md", "docs/final/analysis.md"},
		{"braced into new dir", "docs/{ => guides}/intro.md", "docs/guides/intro.md"},
		{"braced out of dir", "docs/{drafts => }/intro.md", "docs/intro.md"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := "--abc|A|a@x.io|2026-03-01T10:00:00Z|move\n2\t2\t" + tc.statPath + "\n"
			revisions := ParseRevisionLog([]byte(log), nil)
			require.Len(t, revisions, 1)
			require.Len(t, revisions[0].FileDeltas, 1)
			assert.Equal(t, tc.expected, revisions[0].FileDeltas[0].Path)
		})
	}
}

func TestParseRevisionLogExcludes(t *testing.T) {
	log := "--abc|A|a@x.io|2026-03-01T10:00:00Z|vendor bump\n" +
		"900\t900\tvendor/lib/huge.go\n" +
		"3\t1\tdocs/notes.md\n"

	revisions := ParseRevisionLog([]byte(log), []string{"vendor/"})
	require.Len(t, revisions, 1)
	require.Len(t, revisions[0].FileDeltas, 1, "excluded paths drop out of the delta list")
	assert.Equal(t, "docs/notes.md", revisions[0].FileDeltas[0].Path)
}

func TestParseRevisionLogMalformedHeader(t *testing.T) {
	log := "--notenoughfields|justone\n4\t4\torphan.md\n" +
		"--abc|A|a@x.io|not-a-date|bad date\n1\t1\talso-orphan.md\n" +
		"--def|B|b@x.io|2026-03-01T10:00:00Z|good\n2\t2\tdocs/kept.md\n"

	revisions := ParseRevisionLog([]byte(log), nil)
	require.Len(t, revisions, 1, "numstat lines after a bad header are dropped with it")
	assert.Equal(t, "def", revisions[0].Hash)
}

func TestParseRevisionLogPipeInSubject(t *testing.T) {
	log := "--abc|A|a@x.io|2026-03-01T10:00:00Z|feat: parse a|b grammar\n1\t0\tdocs/grammar.md\n"

	revisions := ParseRevisionLog([]byte(log), nil)
	require.Len(t, revisions, 1)
	assert.Equal(t, "feat: parse a|b grammar", revisions[0].Message)
}

func TestParseRevisionLogEmptyCommit(t *testing.T) {
	log := "--abc|A|a@x.io|2026-03-01T10:00:00Z|merge marker\n" +
		"--def|B|b@x.io|2026-03-02T10:00:00Z|real work\n3\t0\tdocs/work.md\n"

	revisions := ParseRevisionLog([]byte(log), nil)
	require.Len(t, revisions, 2, "delta-less revisions still count as commits")
	assert.Empty(t, revisions[0].FileDeltas)
	assert.Len(t, revisions[1].FileDeltas, 1)
}

func TestParseRevisionLogCRLF(t *testing.T) {
	log := "--abc|A|a@x.io|2026-03-01T10:00:00Z|windows checkout\r\n2\t1\tdocs/notes.md\r\n"

	revisions := ParseRevisionLog([]byte(log), nil)
	require.Len(t, revisions, 1)
	assert.Equal(t, "windows checkout", revisions[0].Message)
	require.Len(t, revisions[0].FileDeltas, 1)
	assert.Equal(t, "docs/notes.md", revisions[0].FileDeltas[0].Path)
}
