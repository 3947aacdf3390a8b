package core

import (
	"errors"
	"fmt"

	"github.com/davidkimai/recursive-distill/internal/artifact"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/parquet"
	"github.com/davidkimai/recursive-distill/schema"
)

// ExecuteExport writes one persisted artifact family to a Parquet file
// for use with analytics tools.
func ExecuteExport(cfg *contract.Config, kind schema.ExportKind) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	store := artifact.NewStore(cfg)

	switch kind {
	case schema.HistoryExport:
		history, err := store.LoadHistory()
		if err != nil {
			return err
		}
		rows := parquet.ConvertHistory(history)
		if len(rows) == 0 {
			return errors.New("no history snapshots found to export")
		}
		if err := parquet.WriteHistoryParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to write history export: %w", err)
		}
		fmt.Printf("Exported %d history snapshot(s) to: %s\n", len(rows), cfg.OutputFile)

	case schema.GraphExport:
		graph, err := store.LoadGraph()
		if err != nil {
			return err
		}
		rows := parquet.ConvertGraph(graph)
		if len(rows) == 0 {
			return errors.New("no attribution links found to export")
		}
		if err := parquet.WriteGraphParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to write graph export: %w", err)
		}
		fmt.Printf("Exported %d attribution link(s) to: %s\n", len(rows), cfg.OutputFile)

	case schema.ResidueExport:
		catalog, err := store.LoadResidue()
		if err != nil {
			return err
		}
		rows := parquet.ConvertResidue(catalog)
		if len(rows) == 0 {
			return errors.New("no residue instances found to export")
		}
		if err := parquet.WriteResidueParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to write residue export: %w", err)
		}
		fmt.Printf("Exported %d residue instance(s) to: %s\n", len(rows), cfg.OutputFile)

	default:
		return fmt.Errorf("unknown export kind %q (expected history, graph or residue)", kind)
	}
	return nil
}
