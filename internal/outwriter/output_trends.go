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

// WriteTrends outputs a period report, dispatching based on the output
// format configured.
func WriteTrends(cfg *contract.Config, period *schema.PeriodReport) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeTrendsJSON(period, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeTrendsCSV(period, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendsTable(period, cfg, fmtFloat, intFmt, w)
		}, "Wrote table")
	}
	return nil
}

// writeTrendsJSON handles opening the file and calling the JSON writer.
func writeTrendsJSON(period *schema.PeriodReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, period)
	}, "Wrote JSON")
}

// writeTrendsCSV handles opening the file and calling the CSV writer.
func writeTrendsCSV(period *schema.PeriodReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	header := []string{"score", "current", "previous", "delta", "trend"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeTrendsRows(csvWriter, period, fmtFloat)
		})
	}, "Wrote CSV")
}

// writeTrendsRows writes overall and component deltas as CSV rows.
func writeTrendsRows(w *csv.Writer, period *schema.PeriodReport, fmtFloat func(float64) string) error {
	rows := [][]string{trendRow("overall", period.Overall, fmtFloat)}
	for _, comp := range schema.AllComponents {
		rows = append(rows, trendRow(string(comp), period.Components[comp], fmtFloat))
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// trendRow formats one delta as a row. Without a prior baseline the
// previous and delta cells stay empty.
func trendRow(name string, delta schema.TrendDelta, fmtFloat func(float64) string) []string {
	if !delta.HasPrior {
		return []string{name, fmtFloat(delta.Current), "", "", string(delta.Trend)}
	}
	return []string{
		name,
		fmtFloat(delta.Current),
		fmtFloat(delta.Previous),
		fmtFloat(delta.Delta),
		string(delta.Trend),
	}
}

// writeTrendsTable writes the human-readable period report: the delta
// table plus attribution, residue and activity rollups.
func writeTrendsTable(period *schema.PeriodReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Period %s to %s\n\n",
		period.PeriodStart.Format("2006-01-02"), period.PeriodEnd.Format("2006-01-02")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Score", "Current", "Previous", "Delta", "Trend"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{trendRow("overall", period.Overall, fmtFloat)}
	for _, comp := range schema.AllComponents {
		data = append(data, trendRow(string(comp), period.Components[comp], fmtFloat))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !period.Overall.HasPrior {
		if _, err := fmt.Fprintln(writer, "No snapshot precedes the period; deltas start with the next run."); err != nil {
			return err
		}
	}

	att := period.Attribution
	if _, err := fmt.Fprintf(writer, "\nAttribution: %d contributor(s), %d content node(s), %d link(s), density %s\n",
		att.ContributorCount, att.ContentCount, att.LinkCount, fmtFloat(att.Density)); err != nil {
		return err
	}

	res := period.Residue
	if _, err := fmt.Fprintf(writer, "Residue: %d new in period, %d active, %d pending, %d total",
		res.NewInPeriod, res.Active, res.Pending, res.Total); err != nil {
		return err
	}
	if res.Dominant != "" {
		if _, err := fmt.Fprintf(writer, " (dominant: %s)", res.Dominant); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(writer); err != nil {
		return err
	}

	act := period.Activity
	if _, err := fmt.Fprintf(writer, "Activity: "+intFmt+" commit(s), "+intFmt+" issue(s) opened, "+intFmt+" closed, "+intFmt+" PR(s) opened, "+intFmt+" fork(s)\n",
		act.Commits, act.IssuesOpened, act.IssuesClosed, act.PRsOpened, act.Forks); err != nil {
		return err
	}

	if len(period.Recommendations) > 0 {
		if _, err := fmt.Fprintln(writer, "\nRecommendations:"); err != nil {
			return err
		}
		for _, rec := range period.Recommendations {
			if _, err := fmt.Fprintf(writer, "  - %s\n", rec); err != nil {
				return err
			}
		}
	}
	return nil
}
