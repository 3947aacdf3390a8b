// Package ingest collects repository and platform activity into the
// normalized event stream consumed by the scorer, the graph builder
// and the trend reporter.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// Activity holds the collected inputs of one engine run: the local
// revision history plus the platform activity signals. Platform fields
// may be unavailable; the revision history may not, since a repository
// without readable history is a fatal input condition.
type Activity struct {
	HeadRevision string
	Revisions    []schema.Revision
	Events       []schema.Event

	Issues        contract.Signal[[]schema.PlatformItem]
	IssueComments contract.Signal[[]schema.PlatformItem]
	Pulls         contract.Signal[[]schema.PlatformItem]
	PullComments  contract.Signal[[]schema.PlatformItem]
	Reviews       contract.Signal[map[int][]schema.PlatformItem]
	PullCommits   contract.Signal[map[int][]schema.Revision]
	Forks         contract.Signal[int]
}

// Collect gathers one run's inputs. The revision log spans the full
// history so graph folds stay idempotent across overlapping runs; an
// unreadable repository is fatal, an unreachable platform is not.
func Collect(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) (*Activity, error) {
	head, err := revisions.GetHeadHash(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("no revision history available: %w", err)
	}
	out, err := revisions.GetRevisionLog(ctx, cfg.RepoPath, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("no revision history available: %w", err)
	}

	activity := &Activity{
		HeadRevision: head,
		Revisions:    ParseRevisionLog(out, cfg.Excludes),
	}

	activity.Issues = platform.Issues(ctx)
	activity.IssueComments = platform.IssueComments(ctx)
	activity.Pulls = platform.Pulls(ctx)
	activity.PullComments = platform.PullComments(ctx)
	activity.Forks = platform.ForkCount(ctx)
	activity.Reviews, activity.PullCommits = collectPerPull(ctx, platform, activity.Pulls)

	activity.Events = BuildEvents(activity)
	return activity, nil
}

// collectPerPull fans out to the per-pull endpoints. The first failed
// fetch degrades the whole signal: a partial review map would skew the
// integration rate unpredictably.
func collectPerPull(ctx context.Context, platform contract.PlatformClient, pulls contract.Signal[[]schema.PlatformItem]) (contract.Signal[map[int][]schema.PlatformItem], contract.Signal[map[int][]schema.Revision]) {
	if !pulls.Available() {
		return contract.Unavailable[map[int][]schema.PlatformItem](pulls.Reason()),
			contract.Unavailable[map[int][]schema.Revision](pulls.Reason())
	}

	reviews := make(map[int][]schema.PlatformItem)
	commits := make(map[int][]schema.Revision)
	reviewsSig := contract.Ok(reviews)
	commitsSig := contract.Ok(commits)

	for _, pull := range pulls.Value() {
		if reviewsSig.Available() {
			if sig := platform.PullReviews(ctx, pull.Number); sig.Available() {
				if items := sig.Value(); len(items) > 0 {
					reviews[pull.Number] = items
				}
			} else {
				reviewsSig = contract.Unavailable[map[int][]schema.PlatformItem](sig.Reason())
			}
		}
		if commitsSig.Available() {
			if sig := platform.PullCommits(ctx, pull.Number); sig.Available() {
				if revs := sig.Value(); len(revs) > 0 {
					commits[pull.Number] = revs
				}
			} else {
				commitsSig = contract.Unavailable[map[int][]schema.Revision](sig.Reason())
			}
		}
	}
	return reviewsSig, commitsSig
}

// CommitsBetween counts local revisions with start <= timestamp < end.
func (a *Activity) CommitsBetween(start, end time.Time) int {
	count := 0
	for _, rev := range a.Revisions {
		if !rev.Timestamp.Before(start) && rev.Timestamp.Before(end) {
			count++
		}
	}
	return count
}
