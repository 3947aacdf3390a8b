package platform

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/davidkimai/recursive-distill/schema"
)

// Wire shapes mirror the nested platform API responses. They exist only
// to decode JSON; everything downstream works on the flat schema types.

type wireAccount struct {
	Login string `json:"login"`
}

type wireLabel struct {
	Name string `json:"name"`
}

// wireIssue covers both the issues and the pulls endpoints; the two
// differ only in the presence of pull_request and merged_at.
type wireIssue struct {
	Number      int             `json:"number"`
	User        wireAccount     `json:"user"`
	CreatedAt   time.Time       `json:"created_at"`
	ClosedAt    *time.Time      `json:"closed_at"`
	MergedAt    *time.Time      `json:"merged_at"`
	State       string          `json:"state"`
	Labels      []wireLabel     `json:"labels"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	HTMLURL     string          `json:"html_url"`
	PullRequest json.RawMessage `json:"pull_request"`
}

func (w wireIssue) toItem() schema.PlatformItem {
	item := schema.PlatformItem{
		Number:    w.Number,
		User:      w.User.Login,
		CreatedAt: w.CreatedAt,
		State:     strings.ToLower(w.State),
		Title:     w.Title,
		Body:      w.Body,
		URL:       w.HTMLURL,
	}
	if w.ClosedAt != nil {
		item.ClosedAt = *w.ClosedAt
	}
	if w.MergedAt != nil {
		item.State = "merged"
	}
	for _, l := range w.Labels {
		item.Labels = append(item.Labels, l.Name)
	}
	return item
}

// wireComment covers repository-level issue comments and pull review
// comments. The parent number only appears inside the resource URLs.
type wireComment struct {
	User           wireAccount `json:"user"`
	CreatedAt      time.Time   `json:"created_at"`
	Body           string      `json:"body"`
	HTMLURL        string      `json:"html_url"`
	IssueURL       string      `json:"issue_url"`
	PullRequestURL string      `json:"pull_request_url"`
}

func (w wireComment) toItem() schema.PlatformItem {
	return schema.PlatformItem{
		Number:    trailingNumber(w.IssueURL, w.PullRequestURL),
		User:      w.User.Login,
		CreatedAt: w.CreatedAt,
		Body:      w.Body,
		URL:       w.HTMLURL,
	}
}

type wireReview struct {
	User        wireAccount `json:"user"`
	State       string      `json:"state"`
	SubmittedAt time.Time   `json:"submitted_at"`
	Body        string      `json:"body"`
	HTMLURL     string      `json:"html_url"`
}

func (w wireReview) toItem(number int) schema.PlatformItem {
	return schema.PlatformItem{
		Number:    number,
		User:      w.User.Login,
		CreatedAt: w.SubmittedAt,
		State:     strings.ToLower(w.State),
		Body:      w.Body,
		URL:       w.HTMLURL,
	}
}

type wireCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
	Author wireAccount `json:"author"`
}

// toRevision prefers the platform login as the stable actor handle and
// falls back to the recorded author name for unlinked commits.
func (w wireCommit) toRevision() schema.Revision {
	author := w.Author.Login
	if author == "" {
		author = w.Commit.Author.Name
	}
	return schema.Revision{
		Hash:      w.SHA,
		Author:    author,
		Email:     w.Commit.Author.Email,
		Timestamp: w.Commit.Author.Date,
		Message:   w.Commit.Message,
	}
}

type wireRepo struct {
	ForksCount int `json:"forks_count"`
}

type itemConvertible interface {
	toItem() schema.PlatformItem
}

func toItems[T itemConvertible](docs []T) []schema.PlatformItem {
	items := make([]schema.PlatformItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toItem())
	}
	return items
}

// trailingNumber parses the numeric final path segment of the first
// non-empty URL, the shape resource URLs carry the parent number in.
func trailingNumber(urls ...string) int {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if i := strings.LastIndex(u, "/"); i >= 0 {
			if n, err := strconv.Atoi(u[i+1:]); err == nil {
				return n
			}
		}
	}
	return 0
}
