package schema

import "time"

// PlatformItem is the flattened form of a platform object: an issue, a
// pull request, a comment or a review. The platform client decodes the
// wire payload into this shape; downstream code never sees raw JSON.
type PlatformItem struct {
	Number    int       `json:"number"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ClosedAt  time.Time `json:"closed_at,omitzero"`
	State     string    `json:"state"`
	Labels    []string  `json:"labels,omitempty"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	URL       string    `json:"html_url,omitempty"`
}

// Closed reports whether the item has been closed or merged.
func (p PlatformItem) Closed() bool {
	return p.State == "closed" || p.State == "merged"
}
