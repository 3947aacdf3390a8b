package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// ParseRevisionLog parses numstat revision log output into revisions.
// Header lines carry hash, author, email, date and subject; the numstat
// lines that follow become file deltas. Deltas under excluded paths are
// dropped while the revision itself is kept for commit counting.
func ParseRevisionLog(out []byte, excludes []string) []schema.Revision {
	var revisions []schema.Revision
	var current *schema.Revision

	flush := func() {
		if current != nil {
			revisions = append(revisions, *current)
			current = nil
		}
	}

	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.Trim(line, " \t\r'")

		if strings.HasPrefix(line, "--") {
			flush()
			if rev, ok := parseRevisionHeader(line); ok {
				current = &rev
			}
			continue
		}
		if line == "" || current == nil {
			continue
		}
		if delta, ok := parseDeltaLine(line); ok && !contract.ShouldIgnore(delta.Path, excludes) {
			current.FileDeltas = append(current.FileDeltas, delta)
		}
	}
	flush()
	return revisions
}

// parseRevisionHeader extracts the revision fields from a header line
// of the form --hash|author|email|date|subject.
func parseRevisionHeader(line string) (schema.Revision, bool) {
	parts := strings.SplitN(line[2:], "|", 5)
	if len(parts) != 5 {
		return schema.Revision{}, false
	}
	ts, err := time.Parse(time.RFC3339, parts[3])
	if err != nil {
		return schema.Revision{}, false
	}
	return schema.Revision{
		Hash:      parts[0],
		Author:    parts[1],
		Email:     parts[2],
		Timestamp: ts.UTC(),
		Message:   parts[4],
	}, true
}

// parseDeltaLine parses one numstat line: additions, deletions, path.
func parseDeltaLine(line string) (schema.FileDelta, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 {
		return schema.FileDelta{}, false
	}
	path := resolveRenamedPath(parts[2])
	if path == "" {
		return schema.FileDelta{}, false
	}
	return schema.FileDelta{
		Path:      path,
		Additions: parseLineCount(parts[0]),
		Deletions: parseLineCount(parts[1]),
	}, true
}

// parseLineCount converts a numstat count to int, handling the "-"
// binary-file marker as 0.
func parseLineCount(s string) int {
	if s == "-" {
		return 0
	}
	if val, err := strconv.Atoi(s); err == nil && val >= 0 {
		return val
	}
	return 0
}

// resolveRenamedPath resolves rename notation to the new path, which is
// the content identity the attribution graph tracks. Handles both the
// plain "old => new" form and the braced "prefix{old => new}suffix"
// form.
func resolveRenamedPath(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}

	if !strings.Contains(path, "{") {
		parts := strings.SplitN(path, " => ", 2)
		if len(parts) == 2 {
			return parts[1]
		}
		return ""
	}

	braceStart := strings.Index(path, "{")
	braceEnd := strings.Index(path, "}")
	if braceEnd == -1 || braceStart >= braceEnd {
		return ""
	}

	prefix := path[:braceStart]
	renamePart := path[braceStart+1 : braceEnd]
	suffix := path[braceEnd+1:]

	renameParts := strings.SplitN(renamePart, " => ", 2)
	if len(renameParts) != 2 {
		return ""
	}
	// Collapse the doubled separator left by an empty rename side,
	// e.g. docs/{ => guides}/intro.md
	newPath := prefix + renameParts[1] + suffix
	return strings.ReplaceAll(newPath, "//", "/")
}
