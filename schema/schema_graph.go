package schema

import "time"

// AttributionGraph is the persisted contribution graph. Node ids are
// unique and stable across runs so repeated runs merge rather than
// duplicate; the graph only ever grows.
type AttributionGraph struct {
	Nodes   []Node       `json:"nodes"`
	Links   []Link       `json:"links"`
	Metrics GraphMetrics `json:"metrics"`
}

// Node is one contributor or content artifact in the graph.
type Node struct {
	ID            string            `json:"id"`                  // contributor:<handle> or content:<ref>
	Kind          NodeKind          `json:"kind"`                // contributor or content
	Label         string            `json:"label"`               // Actor handle or content ref
	Contributions int               `json:"contributions"`       // Total links originating from or targeting this node
	Breakdown     map[EventKind]int `json:"breakdown,omitempty"` // Per-kind link counts, contributor nodes only
}

// Link is one directed contributor-to-content edge.
type Link struct {
	Source    string            `json:"source"`
	Target    string            `json:"target"`
	Kind      EventKind         `json:"kind"`
	Weight    float64           `json:"weight"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// GraphMetrics holds the aggregates recomputed after each fold.
type GraphMetrics struct {
	Density          float64           `json:"density"` // |links| / (n(n-1)/2)
	ContributorCount int               `json:"contributorCount"`
	ContentCount     int               `json:"contentCount"`
	LinkCount        int               `json:"linkCount"`
	LinkKinds        map[EventKind]int `json:"linkKinds"`
}

// ContributorNodeID derives the stable node id for an actor handle.
func ContributorNodeID(handle string) string {
	return "contributor:" + handle
}

// ContentNodeID derives the stable node id for a content reference.
func ContentNodeID(ref string) string {
	return "content:" + ref
}

// LinkKey is the dedupe identity of a link.
type LinkKey struct {
	Source    string
	Target    string
	Kind      EventKind
	Timestamp int64 // Unix seconds, UTC
}

// Key returns the dedupe identity of the link.
func (l Link) Key() LinkKey {
	return LinkKey{
		Source:    l.Source,
		Target:    l.Target,
		Kind:      l.Kind,
		Timestamp: l.Timestamp.UTC().Unix(),
	}
}
