// Package platform implements the collaboration platform client used
// for issue, pull request and fork retrieval. Every call returns a
// Signal instead of an error: an unreachable platform, a missing token
// or a bad response degrades the affected factors to neutral scores
// rather than aborting the engine run.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

const (
	pageSize       = 100
	requestTimeout = 30 * time.Second
)

// Client retrieves collaboration activity over the platform REST API.
// Responses are cached by request URL when a fetch store is attached.
type Client struct {
	baseURL    string
	repo       string
	token      string
	httpClient *http.Client
	cache      contract.CacheStore
	ttl        time.Duration
	refresh    bool
}

// Interface implementation check
var _ contract.PlatformClient = &Client{}

// NewClient creates a platform client from the validated config. The
// cache may be nil, in which case every call hits the network.
func NewClient(cfg *contract.Config, cache contract.CacheStore) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.PlatformURL, "/"),
		repo:       cfg.PlatformRepo,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
		ttl:        cfg.CacheTTL,
		refresh:    cfg.Refresh,
	}
}

// Issues returns every issue of the repository, open and closed. The
// issues endpoint also lists pull requests; those are filtered out here
// and retrieved by Pulls instead.
func (c *Client) Issues(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	docs, err := fetchAll[wireIssue](ctx, c, c.endpoint("issues"), url.Values{"state": {"all"}})
	if err != nil {
		return contract.Unavailable[[]schema.PlatformItem](err.Error())
	}
	items := make([]schema.PlatformItem, 0, len(docs))
	for _, d := range docs {
		if len(d.PullRequest) > 0 {
			continue
		}
		items = append(items, d.toItem())
	}
	return contract.Ok(items)
}

// IssueComments returns all issue comments of the repository. The
// parent issue number is recovered from the comment's issue URL.
func (c *Client) IssueComments(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	docs, err := fetchAll[wireComment](ctx, c, c.endpoint("issues/comments"), nil)
	if err != nil {
		return contract.Unavailable[[]schema.PlatformItem](err.Error())
	}
	return contract.Ok(toItems(docs))
}

// Pulls returns every pull request of the repository, open and closed.
// Merged pull requests report the synthetic state "merged".
func (c *Client) Pulls(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	docs, err := fetchAll[wireIssue](ctx, c, c.endpoint("pulls"), url.Values{"state": {"all"}})
	if err != nil {
		return contract.Unavailable[[]schema.PlatformItem](err.Error())
	}
	return contract.Ok(toItems(docs))
}

// PullReviews returns the reviews submitted for one pull request.
func (c *Client) PullReviews(ctx context.Context, number int) contract.Signal[[]schema.PlatformItem] {
	docs, err := fetchAll[wireReview](ctx, c, c.endpoint(fmt.Sprintf("pulls/%d/reviews", number)), nil)
	if err != nil {
		return contract.Unavailable[[]schema.PlatformItem](err.Error())
	}
	items := make([]schema.PlatformItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toItem(number))
	}
	return contract.Ok(items)
}

// PullComments returns all review comments of the repository.
func (c *Client) PullComments(ctx context.Context) contract.Signal[[]schema.PlatformItem] {
	docs, err := fetchAll[wireComment](ctx, c, c.endpoint("pulls/comments"), nil)
	if err != nil {
		return contract.Unavailable[[]schema.PlatformItem](err.Error())
	}
	return contract.Ok(toItems(docs))
}

// PullCommits returns the commits attached to one pull request.
// Platform commits carry no file deltas.
func (c *Client) PullCommits(ctx context.Context, number int) contract.Signal[[]schema.Revision] {
	docs, err := fetchAll[wireCommit](ctx, c, c.endpoint(fmt.Sprintf("pulls/%d/commits", number)), nil)
	if err != nil {
		return contract.Unavailable[[]schema.Revision](err.Error())
	}
	revisions := make([]schema.Revision, 0, len(docs))
	for _, d := range docs {
		revisions = append(revisions, d.toRevision())
	}
	return contract.Ok(revisions)
}

// ForkCount returns the fork count from the repository metadata.
func (c *Client) ForkCount(ctx context.Context) contract.Signal[int] {
	repo, err := fetchOne[wireRepo](ctx, c, c.endpoint(""))
	if err != nil {
		return contract.Unavailable[int](err.Error())
	}
	return contract.Ok(repo.ForksCount)
}

func (c *Client) endpoint(suffix string) string {
	if suffix == "" {
		return "/repos/" + c.repo
	}
	return "/repos/" + c.repo + "/" + suffix
}

// DisabledReason is the degradation detail reported for runs without a
// configured platform repository.
const DisabledReason = "platform repository not configured"

// Disabled is the PlatformClient for runs without a platform
// repository. Every call reports the same unavailable reason so
// platform-backed factors degrade to neutral scores.
type Disabled struct{}

// Interface implementation check
var _ contract.PlatformClient = Disabled{}

func (Disabled) Issues(_ context.Context) contract.Signal[[]schema.PlatformItem] {
	return contract.Unavailable[[]schema.PlatformItem](DisabledReason)
}

func (Disabled) IssueComments(_ context.Context) contract.Signal[[]schema.PlatformItem] {
	return contract.Unavailable[[]schema.PlatformItem](DisabledReason)
}

func (Disabled) Pulls(_ context.Context) contract.Signal[[]schema.PlatformItem] {
	return contract.Unavailable[[]schema.PlatformItem](DisabledReason)
}

func (Disabled) PullReviews(_ context.Context, _ int) contract.Signal[[]schema.PlatformItem] {
	return contract.Unavailable[[]schema.PlatformItem](DisabledReason)
}

func (Disabled) PullComments(_ context.Context) contract.Signal[[]schema.PlatformItem] {
	return contract.Unavailable[[]schema.PlatformItem](DisabledReason)
}

func (Disabled) PullCommits(_ context.Context, _ int) contract.Signal[[]schema.Revision] {
	return contract.Unavailable[[]schema.Revision](DisabledReason)
}

func (Disabled) ForkCount(_ context.Context) contract.Signal[int] {
	return contract.Unavailable[int](DisabledReason)
}
