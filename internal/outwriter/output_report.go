package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// WriteReport outputs a coherence report, dispatching based on the
// output format configured.
func WriteReport(cfg *contract.Config, report *schema.CoherenceReport) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSON(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSV(report, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeReportJSON handles opening the file and calling the JSON writer.
func writeReportJSON(report *schema.CoherenceReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON")
}

// writeReportCSV handles opening the file and calling the CSV writer.
func writeReportCSV(report *schema.CoherenceReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"score", "value", "label"}, func(csvWriter *csv.Writer) error {
			return writeReportRows(csvWriter, report, fmtFloat)
		})
	}, "Wrote CSV")
}

// writeReportRows writes the overall and component scores as CSV rows.
func writeReportRows(w *csv.Writer, report *schema.CoherenceReport, fmtFloat func(float64) string) error {
	rows := [][]string{{"overall", fmtFloat(report.OverallScore), contract.GetPlainLabel(report.OverallScore)}}
	for _, comp := range schema.AllComponents {
		score := report.Components.ByComponent(comp)
		rows = append(rows, []string{string(comp), fmtFloat(score), contract.GetPlainLabel(score)})
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(report *schema.CoherenceReport, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Score", "Value", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	label := func(score float64) string {
		if cfg.UseColors {
			return contract.GetColorLabel(score)
		}
		return contract.GetPlainLabel(score)
	}

	data := [][]string{{"overall", fmtFloat(report.OverallScore), label(report.OverallScore)}}
	for _, comp := range schema.AllComponents {
		score := report.Components.ByComponent(comp)
		data = append(data, []string{string(comp), fmtFloat(score), label(score)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, comp := range schema.AllComponents {
		details := report.Details[comp]
		if len(details) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(writer, "\n%s factors:\n", comp); err != nil {
			return err
		}
		for _, detail := range details {
			if _, err := fmt.Fprintf(writer, "  - %s\n", detail); err != nil {
				return err
			}
		}
	}

	if len(report.Recommendations) > 0 {
		if _, err := fmt.Fprintln(writer, "\nRecommendations:"); err != nil {
			return err
		}
		for _, rec := range report.Recommendations {
			if _, err := fmt.Fprintf(writer, "  - %s\n", rec); err != nil {
				return err
			}
		}
	}

	revision := report.Metadata.Revision
	if revision == "" {
		revision = "(no commits)"
	}
	_, err := fmt.Fprintf(writer, "\nScored revision %s at %s (recursive depth %d)\n",
		revision, report.Metadata.Timestamp.Format(contract.DateTimeFormat), report.Metadata.RecursiveDepth)
	return err
}
