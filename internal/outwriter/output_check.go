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

// WriteCheck outputs a publication gating verdict, dispatching based on
// the output format configured.
func WriteCheck(cfg *contract.Config, result *schema.CheckResult) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeCheckJSON(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCheckCSV(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(result, cfg, fmtFloat, w)
		}, "Wrote verdict")
	}
	return nil
}

// writeCheckJSON handles opening the file and calling the JSON writer.
func writeCheckJSON(result *schema.CheckResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// writeCheckCSV handles opening the file and calling the CSV writer.
func writeCheckCSV(result *schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"score", "value", "threshold", "status"}, func(csvWriter *csv.Writer) error {
			return writeCheckRows(csvWriter, result, fmtFloat)
		})
	}, "Wrote CSV")
}

// writeCheckRows writes overall and component gate rows as CSV.
func writeCheckRows(w *csv.Writer, result *schema.CheckResult, fmtFloat func(float64) string) error {
	rows := [][]string{{
		"overall", fmtFloat(result.OverallScore), fmtFloat(result.Threshold),
		gateStatus(result.OverallScore, result.Threshold),
	}}
	for _, comp := range schema.AllComponents {
		score := result.Components.ByComponent(comp)
		rows = append(rows, []string{
			string(comp), fmtFloat(score), fmtFloat(result.Threshold),
			gateStatus(score, result.Threshold),
		})
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

func gateStatus(score, threshold float64) string {
	if score >= threshold {
		return "pass"
	}
	return "fail"
}

// writeCheckText writes the human-readable verdict: a headline, the
// score table and the violation list.
func writeCheckText(result *schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	verdict := "PASS"
	if cfg.UseColors {
		verdict = contract.PassColor.Sprint(verdict)
	}
	if !result.Passed {
		verdict = "FAIL"
		if cfg.UseColors {
			verdict = contract.FailColor.Sprint(verdict)
		}
	}
	if _, err := fmt.Fprintf(writer, "Publication gate: %s (threshold %s)\n\n", verdict, fmtFloat(result.Threshold)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Score", "Value", "Status"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{{"overall", fmtFloat(result.OverallScore), gateStatus(result.OverallScore, result.Threshold)}}
	for _, comp := range schema.AllComponents {
		score := result.Components.ByComponent(comp)
		data = append(data, []string{string(comp), fmtFloat(score), gateStatus(score, result.Threshold)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(result.Violations) > 0 {
		if _, err := fmt.Fprintln(writer, "\nViolations:"); err != nil {
			return err
		}
		for _, v := range result.Violations {
			if _, err := fmt.Fprintf(writer, "  - %s: %s below threshold %s\n",
				v.Name, fmtFloat(v.Score), fmtFloat(v.Threshold)); err != nil {
				return err
			}
		}
	}

	revision := result.Revision
	if revision == "" {
		revision = "(no commits)"
	}
	_, err := fmt.Fprintf(writer, "\nChecked revision %s scored at %s\n",
		revision, result.Timestamp.Format(contract.DateTimeFormat))
	return err
}
