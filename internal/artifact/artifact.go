// Package artifact persists engine outputs under the artifacts
// directory. Writes go through a temp file and rename so a crashed run
// never leaves a truncated artifact behind; an artifact that no longer
// parses reinitializes as empty with a warning instead of failing the
// run.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// Artifact file names under the artifacts directory.
const (
	ReportFile         = "coherence.json"
	HistoryFile        = "coherence_history.json"
	HistoryArchiveFile = "coherence_history_archive.json.zst"
	GraphFile          = "attribution_graph.json"
	ResidueFile        = "residue_catalog.json"
	PeriodReportFile   = "period_report.json"
)

// Store reads and writes the engine artifacts of one repository.
type Store struct {
	dir        string
	historyCap int
}

// NewStore creates a store rooted at the configured artifacts directory.
func NewStore(cfg *contract.Config) *Store {
	return &Store{dir: cfg.ArtifactsDir, historyCap: cfg.HistoryCap}
}

// Dir returns the artifacts directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute path of one artifact file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveReport replaces the current coherence snapshot.
func (s *Store) SaveReport(report schema.CoherenceReport) error {
	return s.writeJSON(ReportFile, report)
}

// LoadReport returns the current coherence snapshot. The second return
// is false when no snapshot exists yet.
func (s *Store) LoadReport() (schema.CoherenceReport, bool, error) {
	return loadJSON[schema.CoherenceReport](s, ReportFile)
}

// AppendHistory adds a snapshot to the history, rotating entries beyond
// the cap into the compressed archive.
func (s *Store) AppendHistory(report schema.CoherenceReport) error {
	history, err := s.LoadHistory()
	if err != nil {
		return err
	}
	history.Append(report)

	if s.historyCap > 0 && len(history.Snapshots) > s.historyCap {
		cut := len(history.Snapshots) - s.historyCap
		if err := s.appendArchive(history.Snapshots[:cut]); err != nil {
			return err
		}
		history.Snapshots = history.Snapshots[cut:]
	}
	return s.writeJSON(HistoryFile, history)
}

// LoadHistory returns the live snapshot history, empty when the file is
// missing or no longer parses.
func (s *Store) LoadHistory() (schema.CoherenceHistory, error) {
	history, _, err := loadJSON[schema.CoherenceHistory](s, HistoryFile)
	if err != nil {
		return schema.CoherenceHistory{}, err
	}
	history.SortAscending()
	return history, nil
}

// SaveGraph replaces the attribution graph artifact.
func (s *Store) SaveGraph(graph schema.AttributionGraph) error {
	return s.writeJSON(GraphFile, graph)
}

// LoadGraph returns the persisted attribution graph, empty when the
// file is missing or no longer parses. The builder re-derives dropped
// state on the next fold.
func (s *Store) LoadGraph() (schema.AttributionGraph, error) {
	graph, _, err := loadJSON[schema.AttributionGraph](s, GraphFile)
	return graph, err
}

// SaveResidue replaces the residue catalog artifact.
func (s *Store) SaveResidue(catalog schema.ResidueCatalog) error {
	return s.writeJSON(ResidueFile, catalog)
}

// LoadResidue returns the persisted residue catalog, empty when the
// file is missing or no longer parses.
func (s *Store) LoadResidue() (schema.ResidueCatalog, error) {
	catalog, _, err := loadJSON[schema.ResidueCatalog](s, ResidueFile)
	return catalog, err
}

// SavePeriodReport replaces the period report artifact.
func (s *Store) SavePeriodReport(report schema.PeriodReport) error {
	return s.writeJSON(PeriodReportFile, report)
}

// LoadPeriodReport returns the latest period report. The second return
// is false when none exists yet.
func (s *Store) LoadPeriodReport() (schema.PeriodReport, bool, error) {
	return loadJSON[schema.PeriodReport](s, PeriodReportFile)
}

// writeJSON atomically writes one artifact as indented JSON.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.writeBytes(name, data)
}

// writeBytes writes raw artifact bytes through a temp file and rename.
func (s *Store) writeBytes(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifacts dir: %w", err)
	}
	path := s.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// loadJSON reads one artifact. A missing file returns found false; a
// file that no longer parses warns and reinitializes as the zero value
// so one corrupt artifact never blocks future runs.
func loadJSON[T any](s *Store, name string) (T, bool, error) {
	var v T
	data, err := os.ReadFile(s.Path(name))
	if os.IsNotExist(err) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		contract.LogWarn(fmt.Sprintf("reinitializing malformed artifact %s", name), err)
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}
