// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/davidkimai/recursive-distill/schema"
)

// RevisionClient defines the necessary operations against the local
// revision history. This allows the ingestion logic to be tested
// without needing a real git executable.
type RevisionClient interface {
	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRevisionLog returns the raw commit log output, with per-file
	// numstat lines, needed for revision ingestion.
	GetRevisionLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error)

	// GetHeadHash returns the current HEAD commit hash of the repository.
	// An empty string with no error means the repository has no commits.
	GetHeadHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)
}

// PlatformClient defines read access to the collaboration platform that
// hosts the repository. Every method returns a Signal rather than an
// error: an unreachable platform degrades the affected factors to a
// neutral score instead of aborting the run.
type PlatformClient interface {
	// Issues returns all issues, open and closed, excluding pull requests.
	Issues(ctx context.Context) Signal[[]schema.PlatformItem]

	// IssueComments returns all issue comments for the repository.
	IssueComments(ctx context.Context) Signal[[]schema.PlatformItem]

	// Pulls returns all pull requests, open and closed.
	Pulls(ctx context.Context) Signal[[]schema.PlatformItem]

	// PullReviews returns the reviews submitted for one pull request.
	PullReviews(ctx context.Context, number int) Signal[[]schema.PlatformItem]

	// PullComments returns all review comments for the repository.
	PullComments(ctx context.Context) Signal[[]schema.PlatformItem]

	// PullCommits returns the commits attached to one pull request.
	// Platform commits carry no file deltas.
	PullCommits(ctx context.Context, number int) Signal[[]schema.Revision]

	// ForkCount returns the number of forks of the repository.
	ForkCount(ctx context.Context) Signal[int]
}

// StoreManager defines the interface for managing persistent stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetFetchStore() CacheStore
	GetLedgerStore() LedgerStore
}

// CacheStore defines the interface for platform fetch response caching.
// This allows mocking the store for testing.
type CacheStore interface {
	// Get returns the cached body and its expiry as a Unix timestamp.
	// A cache miss returns a nil body and no error.
	Get(key string) ([]byte, int64, error)

	// Set stores a response body under the given key.
	Set(key string, body []byte, storedAt, expiresAt int64) error

	// Clear drops every cached entry.
	Clear() error

	// GetStatus returns status information about the cache store.
	GetStatus() (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// LedgerStore defines the interface for tracking engine runs.
type LedgerStore interface {
	// BeginRun records the start of a run under its unique ID.
	BeginRun(runID string, repo string, startTime time.Time) error

	// EndRun updates the run with completion data: the publication gate
	// verdict and the per-run minimum verdict. The report may be nil
	// when the run failed before scoring.
	EndRun(runID string, endTime time.Time, status schema.RunStatus, report *schema.CoherenceReport, passed bool, minPassed bool) error

	// GetStatus returns status information about the run ledger.
	GetStatus() (schema.LedgerStatus, error)

	// Close closes the underlying connection.
	Close() error
}
