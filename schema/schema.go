// Package schema has the data model, enums and default parameters for all parts of distill.
package schema

import (
	"fmt"
	"time"
)

// Event represents one normalized activity record from the repository or
// the hosting platform. Events are immutable once ingested; the ingestor
// is the sole producer.
type Event struct {
	ID        string    `json:"id"`        // Deterministic identity, stable across runs
	Kind      EventKind `json:"kind"`      // Closed enum, validated at the ingestion boundary
	Actor     string    `json:"actor"`     // Stable actor handle (author name or platform login)
	Timestamp time.Time `json:"timestamp"` // Event time in UTC
	TargetRef string    `json:"targetRef"` // Content reference: file path, issues/<n> or pulls/<n>
	Payload   Payload   `json:"payload"`   // Kind-specific detail
}

// Payload carries the kind-specific fields of an event. Unused fields
// stay at their zero value for kinds that do not produce them.
type Payload struct {
	Number     int         `json:"number,omitempty"`     // Issue or PR number
	Title      string      `json:"title,omitempty"`      // Issue/PR title or commit subject
	Body       string      `json:"body,omitempty"`       // Free text: issue body, comment, review text
	State      string      `json:"state,omitempty"`      // Platform state (open, closed)
	Labels     []string    `json:"labels,omitempty"`     // Platform labels
	URL        string      `json:"url,omitempty"`        // html_url of the platform object
	FileDeltas []FileDelta `json:"fileDeltas,omitempty"` // Commit events: per-file line changes
}

// Validate checks the fields every event must carry. It is applied at
// the ingestion boundary so malformed platform responses fail fast.
func (e *Event) Validate() error {
	if _, ok := ValidEventKinds[e.Kind]; !ok {
		return fmt.Errorf("event %q: unknown kind %q", e.ID, e.Kind)
	}
	if e.Actor == "" {
		return fmt.Errorf("event %q: empty actor", e.ID)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("event %q: zero timestamp", e.ID)
	}
	if e.TargetRef == "" {
		return fmt.Errorf("event %q: empty target ref", e.ID)
	}
	return nil
}

// EventID builds the deterministic identity for a non-commit event.
// Commit events use the commit hash directly.
func EventID(kind EventKind, targetRef string, ts time.Time) string {
	return fmt.Sprintf("%s:%s:%d", kind, targetRef, ts.UTC().Unix())
}

// Revision represents one entry of the local revision history.
type Revision struct {
	Hash       string      `json:"hash"`
	Author     string      `json:"author"`
	Email      string      `json:"email"`
	Timestamp  time.Time   `json:"timestamp"`
	Message    string      `json:"message"`
	FileDeltas []FileDelta `json:"fileDeltas"`
}

// FileDelta represents the line changes of one file within a revision.
type FileDelta struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ChangedLines returns the total changed-line count of a delta, used as
// the attribution link weight for commit events. A delta that reports
// no parsable line counts (binary files) still weighs 1.
func (d FileDelta) ChangedLines() float64 {
	total := d.Additions + d.Deletions
	if total < 1 {
		return 1
	}
	return float64(total)
}
