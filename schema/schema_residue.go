package schema

import "time"

// ResidueInstance is one cataloged explanatory gap. Instances are
// deduplicated by (description, section); status transitions are
// performed by an external reviewer action, never by the engine run.
type ResidueInstance struct {
	ID             string          `json:"id"`
	Classification ResidueClass    `json:"classification"`
	Description    string          `json:"description"`
	Section        string          `json:"section"`
	FailureMode    string          `json:"failureMode"`
	RecursiveDepth ResidueDepth    `json:"recursiveDepth"`
	Valence        ResidueValence  `json:"valence"`
	Detected       time.Time       `json:"detected"`
	Reporter       ResidueReporter `json:"reporter"`
	Source         string          `json:"source"` // Document path, issues/<n> or pulls/<n>
	Status         ResidueStatus   `json:"status"`
}

// ResidueKey is the dedupe identity of an instance.
type ResidueKey struct {
	Description string
	Section     string
}

// Key returns the dedupe identity of the instance.
func (r ResidueInstance) Key() ResidueKey {
	return ResidueKey{Description: r.Description, Section: r.Section}
}

// ResidueCatalog is the persisted, append-only residue artifact.
type ResidueCatalog struct {
	Instances  []ResidueInstance `json:"instances"`
	Aggregates ResidueAggregates `json:"aggregates"`
}

// ResidueAggregates holds the rolled-up catalog counts.
type ResidueAggregates struct {
	Total            int                    `json:"total"`
	ByClassification map[ResidueClass]int   `json:"byClassification"`
	ByStatus         map[ResidueStatus]int  `json:"byStatus"`
	ByValence        map[ResidueValence]int `json:"byValence"`
	Dominant         ResidueClass           `json:"dominantClassification"`
}

// Recount rebuilds the aggregates from the instance list. Dominant ties
// resolve toward taxonomy declaration order.
func (c *ResidueCatalog) Recount() {
	agg := ResidueAggregates{
		Total:            len(c.Instances),
		ByClassification: make(map[ResidueClass]int),
		ByStatus:         make(map[ResidueStatus]int),
		ByValence:        make(map[ResidueValence]int),
	}
	for _, inst := range c.Instances {
		agg.ByClassification[inst.Classification]++
		agg.ByStatus[inst.Status]++
		agg.ByValence[inst.Valence]++
	}
	best := -1
	for _, class := range AllResidueClasses {
		if n := agg.ByClassification[class]; n > best {
			best = n
			agg.Dominant = class
		}
	}
	if agg.Total == 0 {
		agg.Dominant = ""
	}
	c.Aggregates = agg
}
