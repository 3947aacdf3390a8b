package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// memoryCache is a map-backed CacheStore for client tests.
type memoryCache struct {
	entries map[string]memoryEntry
}

type memoryEntry struct {
	body      []byte
	expiresAt int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]memoryEntry{}}
}

func (m *memoryCache) Get(key string) ([]byte, int64, error) {
	e, ok := m.entries[key]
	if !ok {
		return nil, 0, nil
	}
	return e.body, e.expiresAt, nil
}

func (m *memoryCache) Set(key string, body []byte, _, expiresAt int64) error {
	m.entries[key] = memoryEntry{body: body, expiresAt: expiresAt}
	return nil
}

func (m *memoryCache) Clear() error {
	m.entries = map[string]memoryEntry{}
	return nil
}

func (m *memoryCache) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: "memory", Connected: true, TotalEntries: len(m.entries)}, nil
}

func (m *memoryCache) Close() error { return nil }

var _ contract.CacheStore = &memoryCache{} // Compile-time check

func newTestClient(t *testing.T, handler http.HandlerFunc, cache contract.CacheStore, mutate func(*contract.Config)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &contract.Config{
		PlatformURL:  server.URL,
		PlatformRepo: "octo/distill",
		CacheTTL:     time.Hour,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return NewClient(cfg, cache)
}

func pageParam(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("page"))
	return n
}

func TestClientIssues(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/repos/octo/distill/issues", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		if pageParam(r) > 1 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, `[
			{"number": 7, "user": {"login": "mila"}, "created_at": "2026-03-01T10:00:00Z",
			 "closed_at": "2026-03-04T10:00:00Z", "state": "closed",
			 "labels": [{"name": "feedback"}, {"name": "bug"}],
			 "title": "Drift in section four", "body": "The scope drifts.",
			 "html_url": "https://platform.test/octo/distill/issues/7"},
			{"number": 8, "user": {"login": "amir"}, "created_at": "2026-03-02T10:00:00Z",
			 "state": "open", "title": "Open question",
			 "html_url": "https://platform.test/octo/distill/issues/8"},
			{"number": 9, "user": {"login": "amir"}, "created_at": "2026-03-03T10:00:00Z",
			 "state": "open", "title": "Actually a pull request",
			 "html_url": "https://platform.test/octo/distill/pull/9",
			 "pull_request": {"url": "https://platform.test/repos/octo/distill/pulls/9"}}
		]`)
	}, nil, nil)

	sig := client.Issues(context.Background())
	require.True(t, sig.Available())

	items := sig.Value()
	require.Len(t, items, 2, "pull requests are filtered from the issues listing")
	assert.Equal(t, int32(2), hits.Load(), "pagination stops at the first empty page")

	first := items[0]
	assert.Equal(t, 7, first.Number)
	assert.Equal(t, "mila", first.User)
	assert.Equal(t, "closed", first.State)
	assert.Equal(t, []string{"feedback", "bug"}, first.Labels)
	assert.Equal(t, "Drift in section four", first.Title)
	assert.Equal(t, "https://platform.test/octo/distill/issues/7", first.URL)
	assert.True(t, first.Closed())
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), first.ClosedAt)

	assert.False(t, items[1].Closed())
	assert.True(t, items[1].ClosedAt.IsZero())
}

func TestClientIssuesPaginates(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch pageParam(r) {
		case 1:
			fmt.Fprint(w, `[{"number": 1, "user": {"login": "a"}, "created_at": "2026-01-01T00:00:00Z", "state": "open"}]`)
		case 2:
			fmt.Fprint(w, `[{"number": 2, "user": {"login": "b"}, "created_at": "2026-01-02T00:00:00Z", "state": "open"}]`)
		default:
			fmt.Fprint(w, "[]")
		}
	}, nil, nil)

	sig := client.Issues(context.Background())
	require.True(t, sig.Available())
	assert.Len(t, sig.Value(), 2)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientPulls(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/distill/pulls", r.URL.Path)
		if pageParam(r) > 1 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, `[
			{"number": 12, "user": {"login": "mila"}, "created_at": "2026-03-05T09:00:00Z",
			 "closed_at": "2026-03-06T09:00:00Z", "merged_at": "2026-03-06T09:00:00Z",
			 "state": "closed", "title": "Tighten scope wording",
			 "html_url": "https://platform.test/octo/distill/pull/12"},
			{"number": 13, "user": {"login": "amir"}, "created_at": "2026-03-07T09:00:00Z",
			 "state": "open", "title": "Draft rework",
			 "html_url": "https://platform.test/octo/distill/pull/13"}
		]`)
	}, nil, nil)

	sig := client.Pulls(context.Background())
	require.True(t, sig.Available())

	pulls := sig.Value()
	require.Len(t, pulls, 2)
	assert.Equal(t, "merged", pulls[0].State)
	assert.True(t, pulls[0].Closed())
	assert.Equal(t, "open", pulls[1].State)
}

func TestClientIssueComments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/distill/issues/comments", r.URL.Path)
		if pageParam(r) > 1 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, `[
			{"user": {"login": "amir"}, "created_at": "2026-03-02T11:00:00Z",
			 "body": "Could you cite the source here?",
			 "html_url": "https://platform.test/octo/distill/issues/7#issuecomment-1",
			 "issue_url": "https://api.platform.test/repos/octo/distill/issues/7"}
		]`)
	}, nil, nil)

	sig := client.IssueComments(context.Background())
	require.True(t, sig.Available())

	comments := sig.Value()
	require.Len(t, comments, 1)
	assert.Equal(t, 7, comments[0].Number, "parent number parsed from the issue URL")
	assert.Equal(t, "amir", comments[0].User)
	assert.Equal(t, "Could you cite the source here?", comments[0].Body)
}

func TestClientPullReviews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/distill/pulls/12/reviews", r.URL.Path)
		if pageParam(r) > 1 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, `[
			{"user": {"login": "mila"}, "state": "APPROVED",
			 "submitted_at": "2026-03-06T08:00:00Z", "body": "Looks solid now.",
			 "html_url": "https://platform.test/octo/distill/pull/12#pullrequestreview-1"}
		]`)
	}, nil, nil)

	sig := client.PullReviews(context.Background(), 12)
	require.True(t, sig.Available())

	reviews := sig.Value()
	require.Len(t, reviews, 1)
	assert.Equal(t, 12, reviews[0].Number)
	assert.Equal(t, "approved", reviews[0].State)
	assert.Equal(t, time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC), reviews[0].CreatedAt)
}

func TestClientPullCommits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/distill/pulls/12/commits", r.URL.Path)
		if pageParam(r) > 1 {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, `[
			{"sha": "aaa111", "author": {"login": "mila"},
			 "commit": {"author": {"name": "Mila K", "email": "mila@example.com", "date": "2026-03-05T10:00:00Z"},
			            "message": "address review feedback"}},
			{"sha": "bbb222",
			 "commit": {"author": {"name": "Drive By", "email": "drive@example.com", "date": "2026-03-05T11:00:00Z"},
			            "message": "fix typo"}}
		]`)
	}, nil, nil)

	sig := client.PullCommits(context.Background(), 12)
	require.True(t, sig.Available())

	commits := sig.Value()
	require.Len(t, commits, 2)
	assert.Equal(t, "aaa111", commits[0].Hash)
	assert.Equal(t, "mila", commits[0].Author, "platform login preferred")
	assert.Equal(t, "address review feedback", commits[0].Message)
	assert.Equal(t, "Drive By", commits[1].Author, "unlinked commits fall back to the author name")
	assert.Empty(t, commits[1].FileDeltas)
}

func TestClientForkCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/distill", r.URL.Path)
		fmt.Fprint(w, `{"forks_count": 17}`)
	}, nil, nil)

	sig := client.ForkCount(context.Background())
	require.True(t, sig.Available())
	assert.Equal(t, 17, sig.Value())
}

func TestClientUnavailableStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	}, nil, nil)

	sig := client.Issues(context.Background())
	require.False(t, sig.Available())
	assert.Contains(t, sig.Reason(), "403")
	assert.Contains(t, sig.Reason(), "rate limit")
	assert.Empty(t, sig.Value())
}

func TestClientUnavailableNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse all connections

	client := NewClient(&contract.Config{
		PlatformURL:  server.URL,
		PlatformRepo: "octo/distill",
	}, nil)

	sig := client.ForkCount(context.Background())
	require.False(t, sig.Available())
	assert.NotEmpty(t, sig.Reason())
}

func TestClientUnavailableDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "an array"}`)
	}, nil, nil)

	sig := client.Issues(context.Background())
	require.False(t, sig.Available())
	assert.Contains(t, sig.Reason(), "decode")
}

func TestClientAuthorization(t *testing.T) {
	t.Run("token set", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer t0ken", r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"forks_count": 0}`)
		}, nil, func(cfg *contract.Config) {
			cfg.Token = "t0ken"
		})
		require.True(t, client.ForkCount(context.Background()).Available())
	})

	t.Run("anonymous", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			fmt.Fprint(w, `{"forks_count": 0}`)
		}, nil, nil)
		require.True(t, client.ForkCount(context.Background()).Available())
	})
}

func TestClientCache(t *testing.T) {
	var hits atomic.Int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"forks_count": 3}`)
	}, cache, nil)

	require.True(t, client.ForkCount(context.Background()).Available())
	require.True(t, client.ForkCount(context.Background()).Available())
	assert.Equal(t, int32(1), hits.Load(), "second fetch served from the cache")
}

func TestClientCacheExpired(t *testing.T) {
	var hits atomic.Int32
	cache := newMemoryCache()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"forks_count": 3}`)
	}, cache, func(cfg *contract.Config) {
		cfg.CacheTTL = -time.Minute // Every stored entry is already expired
	})

	require.True(t, client.ForkCount(context.Background()).Available())
	require.True(t, client.ForkCount(context.Background()).Available())
	assert.Equal(t, int32(2), hits.Load(), "expired entries are refetched")
}

func TestClientCacheRefreshBypass(t *testing.T) {
	var hits atomic.Int32
	cache := newMemoryCache()
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"forks_count": 3}`)
	}

	warm := newTestClient(t, handler, cache, nil)
	require.True(t, warm.ForkCount(context.Background()).Available())
	require.Equal(t, int32(1), hits.Load())

	// A refresh client sharing the cache must hit the network again.
	fresh := NewClient(&contract.Config{
		PlatformURL:  warm.baseURL,
		PlatformRepo: "octo/distill",
		CacheTTL:     time.Hour,
		Refresh:      true,
	}, cache)
	require.True(t, fresh.ForkCount(context.Background()).Available())
	assert.Equal(t, int32(2), hits.Load())
}

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	client := Disabled{}

	assert.False(t, client.Issues(ctx).Available())
	assert.False(t, client.IssueComments(ctx).Available())
	assert.False(t, client.Pulls(ctx).Available())
	assert.False(t, client.PullReviews(ctx, 1).Available())
	assert.False(t, client.PullComments(ctx).Available())
	assert.False(t, client.PullCommits(ctx, 1).Available())
	assert.False(t, client.ForkCount(ctx).Available())
	assert.Equal(t, DisabledReason, client.Issues(ctx).Reason())
}

func TestTrailingNumber(t *testing.T) {
	tests := []struct {
		name     string
		urls     []string
		expected int
	}{
		{"issue url", []string{"https://api.platform.test/repos/o/r/issues/42"}, 42},
		{"first non-empty wins", []string{"", "https://api.platform.test/repos/o/r/pulls/9"}, 9},
		{"non-numeric tail", []string{"https://api.platform.test/repos/o/r"}, 0},
		{"empty", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, trailingNumber(tc.urls...))
		})
	}
}

func TestSummarizeBody(t *testing.T) {
	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "bad credentials", summarizeBody([]byte("bad\n  credentials\t")))
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, "empty response body", summarizeBody([]byte("   \n")))
	})

	t.Run("truncates on a rune boundary", func(t *testing.T) {
		// Three-byte runes so the byte limit lands mid-sequence.
		body := []byte(strings.Repeat("世", 100))
		s := summarizeBody(body)
		assert.True(t, utf8.ValidString(s))
		assert.True(t, strings.HasSuffix(s, "..."))
		assert.Less(t, len(s), len(body))
	})
}
