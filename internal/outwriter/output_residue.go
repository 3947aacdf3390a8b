package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// shortIDWidth is how many id characters the table shows; the full id
// is available from the CSV and JSON outputs.
const shortIDWidth = 8

// WriteResidue outputs the residue catalog, dispatching based on the
// output format configured.
func WriteResidue(cfg *contract.Config, catalog *schema.ResidueCatalog) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeResidueJSON(catalog, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeResidueCSV(catalog, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResidueTable(catalog, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writeResidueJSON handles opening the file and calling the JSON writer.
func writeResidueJSON(catalog *schema.ResidueCatalog, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, catalog)
	}, "Wrote JSON")
}

// writeResidueCSV handles opening the file and calling the CSV writer.
func writeResidueCSV(catalog *schema.ResidueCatalog, cfg *contract.Config) error {
	header := []string{"id", "classification", "status", "depth", "valence", "reporter", "section", "source", "detected", "description"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeResidueRows(csvWriter, catalog)
		})
	}, "Wrote CSV")
}

// writeResidueRows writes every cataloged instance as a CSV row.
func writeResidueRows(w *csv.Writer, catalog *schema.ResidueCatalog) error {
	for _, inst := range catalog.Instances {
		row := []string{
			inst.ID,
			string(inst.Classification),
			string(inst.Status),
			string(inst.RecursiveDepth),
			string(inst.Valence),
			string(inst.Reporter),
			inst.Section,
			inst.Source,
			inst.Detected.Format(contract.DateTimeFormat),
			inst.Description,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// writeResidueTable writes the human-readable catalog listing plus the
// aggregate summary.
func writeResidueTable(catalog *schema.ResidueCatalog, cfg *contract.Config, writer io.Writer) error {
	if len(catalog.Instances) == 0 {
		_, err := fmt.Fprintln(writer, "Residue catalog is empty.")
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Class", "Status", "Depth", "Section", "Description"})

	maxText := getMaxTableTextWidth(cfg)
	var data [][]string
	for _, inst := range catalog.Instances {
		id := inst.ID
		if len(id) > shortIDWidth {
			id = id[:shortIDWidth]
		}
		data = append(data, []string{
			id,
			string(inst.Classification),
			string(inst.Status),
			string(inst.RecursiveDepth),
			truncateText(inst.Section, 20),
			truncateText(inst.Description, maxText),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	agg := catalog.Aggregates
	if _, err := fmt.Fprintf(writer, "\n%d instance(s): %d active, %d pending, %d resolved\n",
		agg.Total,
		agg.ByStatus[schema.ActiveResidue],
		agg.ByStatus[schema.PendingResidue],
		agg.ByStatus[schema.ResolvedResidue]); err != nil {
		return err
	}
	if agg.Dominant != "" {
		if _, err := fmt.Fprintf(writer, "Dominant classification: %s\n", agg.Dominant); err != nil {
			return err
		}
	}
	return nil
}
