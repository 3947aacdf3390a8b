package ingest

import (
	"fmt"
	"sort"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// IssueRef derives the content reference for an issue number.
func IssueRef(number int) string {
	return fmt.Sprintf("issues/%d", number)
}

// PullRef derives the content reference for a pull request number.
func PullRef(number int) string {
	return fmt.Sprintf("pulls/%d", number)
}

// BuildEvents normalizes the collected activity into the validated
// event stream, sorted by timestamp then id for deterministic folds.
// Events that fail boundary validation are rejected with a warning
// rather than aborting the run.
func BuildEvents(a *Activity) []schema.Event {
	var events []schema.Event

	events = appendCommitEvents(events, a.Revisions)
	if a.Issues.Available() {
		events = appendItemEvents(events, schema.IssueOpenEvent, a.Issues.Value(), IssueRef)
	}
	if a.IssueComments.Available() {
		events = appendItemEvents(events, schema.IssueCommentEvent, a.IssueComments.Value(), IssueRef)
	}
	if a.Pulls.Available() {
		events = appendItemEvents(events, schema.PROpenEvent, a.Pulls.Value(), PullRef)
	}
	if a.Reviews.Available() {
		for _, reviews := range a.Reviews.Value() {
			events = appendItemEvents(events, schema.PRReviewEvent, reviews, PullRef)
		}
	}
	if a.PullComments.Available() {
		events = appendItemEvents(events, schema.PRCommentEvent, a.PullComments.Value(), PullRef)
	}
	if a.PullCommits.Available() {
		for number, commits := range a.PullCommits.Value() {
			events = appendPullCommitEvents(events, number, commits)
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})
	return events
}

// appendCommitEvents produces one event per revision that touched at
// least one file, targeting its first delta path. The graph builder
// fans links out over the full delta list.
func appendCommitEvents(events []schema.Event, revisions []schema.Revision) []schema.Event {
	for _, rev := range revisions {
		if len(rev.FileDeltas) == 0 {
			continue
		}
		events = appendValid(events, schema.Event{
			ID:        rev.Hash,
			Kind:      schema.CommitEvent,
			Actor:     rev.Author,
			Timestamp: rev.Timestamp.UTC(),
			TargetRef: rev.FileDeltas[0].Path,
			Payload: schema.Payload{
				Title:      rev.Message,
				FileDeltas: rev.FileDeltas,
			},
		})
	}
	return events
}

// appendItemEvents produces one event per platform item of the given
// kind, targeting the reference derived from the item number.
func appendItemEvents(events []schema.Event, kind schema.EventKind, items []schema.PlatformItem, ref func(int) string) []schema.Event {
	for _, item := range items {
		target := ref(item.Number)
		events = appendValid(events, schema.Event{
			ID:        schema.EventID(kind, target, item.CreatedAt),
			Kind:      kind,
			Actor:     item.User,
			Timestamp: item.CreatedAt.UTC(),
			TargetRef: target,
			Payload: schema.Payload{
				Number: item.Number,
				Title:  item.Title,
				Body:   item.Body,
				State:  item.State,
				Labels: item.Labels,
				URL:    item.URL,
			},
		})
	}
	return events
}

// appendPullCommitEvents produces events for the commits attached to
// one pull request. They target the pull, not file paths: platform
// commit listings carry no file deltas.
func appendPullCommitEvents(events []schema.Event, number int, commits []schema.Revision) []schema.Event {
	for _, rev := range commits {
		events = appendValid(events, schema.Event{
			ID:        rev.Hash,
			Kind:      schema.PRCommitEvent,
			Actor:     rev.Author,
			Timestamp: rev.Timestamp.UTC(),
			TargetRef: PullRef(number),
			Payload: schema.Payload{
				Number: number,
				Title:  rev.Message,
			},
		})
	}
	return events
}

// appendValid enforces the ingestion boundary: an event that fails
// validation is rejected with a warning and never enters the stream.
func appendValid(events []schema.Event, event schema.Event) []schema.Event {
	if err := event.Validate(); err != nil {
		contract.LogWarn("rejecting malformed event", err)
		return events
	}
	return append(events, event)
}
