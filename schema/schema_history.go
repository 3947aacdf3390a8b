package schema

import (
	"sort"
	"time"
)

// CoherenceHistory is the persisted, timestamp-ascending list of past
// report snapshots. Report generation partitions it into in-period and
// prior entries, so ascending order is an invariant after every append.
type CoherenceHistory struct {
	Snapshots []CoherenceReport `json:"snapshots"`
}

// Append adds a snapshot and restores ascending timestamp order.
func (h *CoherenceHistory) Append(report CoherenceReport) {
	h.Snapshots = append(h.Snapshots, report)
	h.SortAscending()
}

// SortAscending sorts snapshots by metadata timestamp, oldest first.
// The sort is stable so same-timestamp snapshots keep insertion order.
func (h *CoherenceHistory) SortAscending() {
	sort.SliceStable(h.Snapshots, func(i, j int) bool {
		return h.Snapshots[i].Metadata.Timestamp.Before(h.Snapshots[j].Metadata.Timestamp)
	})
}

// Latest returns the most recent snapshot, or false when empty.
func (h *CoherenceHistory) Latest() (CoherenceReport, bool) {
	if len(h.Snapshots) == 0 {
		return CoherenceReport{}, false
	}
	return h.Snapshots[len(h.Snapshots)-1], true
}

// LatestBefore returns the most recent snapshot strictly before cutoff,
// or false when no snapshot precedes it.
func (h *CoherenceHistory) LatestBefore(cutoff time.Time) (CoherenceReport, bool) {
	for i := len(h.Snapshots) - 1; i >= 0; i-- {
		if h.Snapshots[i].Metadata.Timestamp.Before(cutoff) {
			return h.Snapshots[i], true
		}
	}
	return CoherenceReport{}, false
}
