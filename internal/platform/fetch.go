package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davidkimai/recursive-distill/internal/contract"
)

// fetchAll follows the page query parameter until the platform returns
// an empty page, collecting every item along the way.
func fetchAll[T any](ctx context.Context, c *Client, endpoint string, query url.Values) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		q := url.Values{}
		maps.Copy(q, query)
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(pageSize))

		body, err := c.getJSON(ctx, c.baseURL+endpoint+"?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", endpoint, err)
		}
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("GET %s: decode page %d: %w", endpoint, page, err)
		}
		if len(items) == 0 {
			return all, nil
		}
		all = append(all, items...)
	}
}

// fetchOne retrieves a single unpaginated resource.
func fetchOne[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	body, err := c.getJSON(ctx, c.baseURL+endpoint)
	if err != nil {
		return out, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("GET %s: decode: %w", endpoint, err)
	}
	return out, nil
}

// getJSON fetches one URL, serving from the fetch cache when a live
// entry exists and persisting fresh responses back to it. A refresh
// run skips cache reads but still stores what it fetched.
func (c *Client) getJSON(ctx context.Context, u string) ([]byte, error) {
	if c.cache != nil && !c.refresh {
		body, expires, err := c.cache.Get(u)
		if err == nil && body != nil && expires > time.Now().Unix() {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "recursive-distill")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %s", resp.Status, summarizeBody(body))
	}

	if c.cache != nil {
		now := time.Now()
		if err := c.cache.Set(u, body, now.Unix(), now.Add(c.ttl).Unix()); err != nil {
			contract.LogWarn("caching platform response", err)
		}
	}
	return body, nil
}

// summarizeBody compacts an error response body into a single short
// line suitable for a degradation reason.
func summarizeBody(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	const limit = 200
	if len(s) > limit {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte sequence.
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	if s == "" {
		s = "empty response body"
	}
	return s
}
