package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// topContributorLimit caps the contributor rows in the table output.
const topContributorLimit = 10

// WriteGraph outputs attribution graph stats, dispatching based on the
// output format configured.
func WriteGraph(cfg *contract.Config, graph *schema.AttributionGraph) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeGraphJSON(graph, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeGraphCSV(graph, cfg, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGraphTable(graph, cfg, fmtFloat, intFmt, w)
		}, "Wrote table")
	}
	return nil
}

// writeGraphJSON handles opening the file and calling the JSON writer.
func writeGraphJSON(graph *schema.AttributionGraph, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, graph)
	}, "Wrote JSON")
}

// writeGraphCSV handles opening the file and calling the CSV writer.
func writeGraphCSV(graph *schema.AttributionGraph, cfg *contract.Config, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, []string{"id", "kind", "label", "contributions"}, func(csvWriter *csv.Writer) error {
			return writeGraphRows(csvWriter, graph, intFmt)
		})
	}, "Wrote CSV")
}

// writeGraphRows writes every node as a CSV row.
func writeGraphRows(w *csv.Writer, graph *schema.AttributionGraph, intFmt string) error {
	for _, node := range graph.Nodes {
		row := []string{
			node.ID,
			string(node.Kind),
			node.Label,
			fmt.Sprintf(intFmt, node.Contributions),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// writeGraphTable writes the metrics summary plus the most active
// contributors.
func writeGraphTable(graph *schema.AttributionGraph, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, writer io.Writer) error {
	m := graph.Metrics
	if _, err := fmt.Fprintf(writer, "Attribution graph: %d contributor(s), %d content node(s), %d link(s), density %s\n\n",
		m.ContributorCount, m.ContentCount, m.LinkCount, fmtFloat(m.Density)); err != nil {
		return err
	}

	contributors := contributorsByActivity(graph)
	if len(contributors) == 0 {
		_, err := fmt.Fprintln(writer, "No contributors recorded yet.")
		return err
	}
	if len(contributors) > topContributorLimit {
		contributors = contributors[:topContributorLimit]
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Contributor", "Contributions", "Top Kind"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, node := range contributors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			node.Label,
			fmt.Sprintf(intFmt, node.Contributions),
			dominantKind(node.Breakdown),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(m.LinkKinds) > 0 {
		if _, err := fmt.Fprintln(writer, "\nLinks by kind:"); err != nil {
			return err
		}
		for _, kind := range schema.AllEventKinds {
			if count := m.LinkKinds[kind]; count > 0 {
				if _, err := fmt.Fprintf(writer, "  %s: %d\n", kind, count); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// contributorsByActivity returns contributor nodes ordered by
// contribution count, ties broken by label for stable output.
func contributorsByActivity(graph *schema.AttributionGraph) []schema.Node {
	var contributors []schema.Node
	for _, node := range graph.Nodes {
		if node.Kind == schema.ContributorNode {
			contributors = append(contributors, node)
		}
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		if contributors[i].Contributions != contributors[j].Contributions {
			return contributors[i].Contributions > contributors[j].Contributions
		}
		return contributors[i].Label < contributors[j].Label
	})
	return contributors
}

// dominantKind picks the most frequent event kind from a breakdown,
// ties resolving toward kind declaration order.
func dominantKind(breakdown map[schema.EventKind]int) string {
	best := 0
	dominant := ""
	for _, kind := range schema.AllEventKinds {
		if count := breakdown[kind]; count > best {
			best = count
			dominant = string(kind)
		}
	}
	return dominant
}
