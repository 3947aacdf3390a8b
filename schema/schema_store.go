package schema

import "time"

// RunRecord represents a row from the distill_runs ledger table.
// Nullable columns use pointers, matching the SQL schema.
type RunRecord struct {
	RunID         string
	Repo          string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Status        RunStatus
	OverallScore  *float64
	SignalScore   *float64
	FeedbackScore *float64
	BoundedScore  *float64
	ElasticScore  *float64
	Passed        *bool
}

// FetchCacheEntry represents a row from the platform fetch cache.
type FetchCacheEntry struct {
	Key       string
	Body      string
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its TTL at the given time.
func (e FetchCacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
