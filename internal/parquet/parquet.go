// Package parquet exports the persisted engine artifacts to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/davidkimai/recursive-distill/schema"
)

// HistorySnapshot represents one coherence history entry as a flat
// Parquet row.
type HistorySnapshot struct {
	// Timestamp is the run start time of the snapshot
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Revision is the head revision hash, empty with no commits
	Revision string `parquet:"revision,snappy"`

	// RecursiveDepth is the max declared recursion depth across documents
	RecursiveDepth int32 `parquet:"recursive_depth,snappy"`

	// OverallScore is the weighted geometric mean of the components
	OverallScore float64 `parquet:"overall_score,snappy"`

	// SignalScore is the signal alignment sub-score
	SignalScore float64 `parquet:"signal_score,snappy"`

	// FeedbackScore is the feedback responsiveness sub-score
	FeedbackScore float64 `parquet:"feedback_score,snappy"`

	// BoundedScore is the bounded integrity sub-score
	BoundedScore float64 `parquet:"bounded_score,snappy"`

	// ElasticScore is the elastic tolerance sub-score
	ElasticScore float64 `parquet:"elastic_score,snappy"`

	// RecommendationCount is the number of emitted recommendations
	RecommendationCount int32 `parquet:"recommendation_count,snappy"`
}

// GraphLink represents one attribution graph edge as a flat Parquet row.
type GraphLink struct {
	// Source is the contributor node id
	Source string `parquet:"source,snappy"`

	// Target is the content node id
	Target string `parquet:"target,snappy"`

	// Kind is the event kind that produced the link
	Kind string `parquet:"kind,snappy"`

	// Weight is the attribution weight of the link
	Weight float64 `parquet:"weight,snappy"`

	// Timestamp is the event time of the link
	Timestamp time.Time `parquet:"timestamp,snappy"`

	// Provenance is the revision hash or platform URL behind the link (nullable)
	Provenance *string `parquet:"provenance,optional,snappy"`
}

// ResidueRow represents one cataloged residue instance as a flat
// Parquet row.
type ResidueRow struct {
	// ID is the catalog identity of the instance
	ID string `parquet:"id,snappy"`

	// Classification is the residue taxonomy class
	Classification string `parquet:"classification,snappy"`

	// Description is the flagged text span
	Description string `parquet:"description,snappy"`

	// Section is the document section or discussion ref containing the span
	Section string `parquet:"section,snappy"`

	// FailureMode is the failure mode derived from the classification
	FailureMode string `parquet:"failure_mode,snappy"`

	// RecursiveDepth is the surface/intermediate/deep depth marker
	RecursiveDepth string `parquet:"recursive_depth,snappy"`

	// Valence is the instance valence
	Valence string `parquet:"valence,snappy"`

	// Detected is when the instance entered the catalog
	Detected time.Time `parquet:"detected,snappy"`

	// Reporter is author or system
	Reporter string `parquet:"reporter,snappy"`

	// Source is the document path, issues/<n> or pulls/<n>
	Source string `parquet:"source,snappy"`

	// Status is the lifecycle status of the instance
	Status string `parquet:"status,snappy"`
}

// ConvertHistory flattens history snapshots into Parquet rows.
func ConvertHistory(history schema.CoherenceHistory) []HistorySnapshot {
	rows := make([]HistorySnapshot, 0, len(history.Snapshots))
	for _, snap := range history.Snapshots {
		rows = append(rows, HistorySnapshot{
			Timestamp:           snap.Metadata.Timestamp,
			Revision:            snap.Metadata.Revision,
			RecursiveDepth:      int32(snap.Metadata.RecursiveDepth),
			OverallScore:        snap.OverallScore,
			SignalScore:         snap.Components.Signal,
			FeedbackScore:       snap.Components.Feedback,
			BoundedScore:        snap.Components.Bounded,
			ElasticScore:        snap.Components.Elastic,
			RecommendationCount: int32(len(snap.Recommendations)),
		})
	}
	return rows
}

// ConvertGraph flattens graph links into Parquet rows. The per-link
// metadata map collapses into a single provenance column.
func ConvertGraph(graph schema.AttributionGraph) []GraphLink {
	rows := make([]GraphLink, 0, len(graph.Links))
	for _, link := range graph.Links {
		row := GraphLink{
			Source:    link.Source,
			Target:    link.Target,
			Kind:      string(link.Kind),
			Weight:    link.Weight,
			Timestamp: link.Timestamp,
		}
		if rev, ok := link.Metadata["revision"]; ok {
			row.Provenance = &rev
		} else if url, ok := link.Metadata["url"]; ok {
			row.Provenance = &url
		}
		rows = append(rows, row)
	}
	return rows
}

// ConvertResidue flattens catalog instances into Parquet rows.
func ConvertResidue(catalog schema.ResidueCatalog) []ResidueRow {
	rows := make([]ResidueRow, 0, len(catalog.Instances))
	for _, inst := range catalog.Instances {
		rows = append(rows, ResidueRow{
			ID:             inst.ID,
			Classification: string(inst.Classification),
			Description:    inst.Description,
			Section:        inst.Section,
			FailureMode:    inst.FailureMode,
			RecursiveDepth: string(inst.RecursiveDepth),
			Valence:        string(inst.Valence),
			Detected:       inst.Detected,
			Reporter:       string(inst.Reporter),
			Source:         inst.Source,
			Status:         string(inst.Status),
		})
	}
	return rows
}

// WriteHistoryParquet writes history rows to a Parquet file.
func WriteHistoryParquet(data []HistorySnapshot, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteGraphParquet writes graph link rows to a Parquet file.
func WriteGraphParquet(data []GraphLink, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteResidueParquet writes residue rows to a Parquet file.
func WriteResidueParquet(data []ResidueRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes one row slice to a Parquet file. The schema is
// inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}
