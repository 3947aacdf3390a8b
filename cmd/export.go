package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// exportCmd exports artifacts to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export artifacts to Parquet for BI tools and analytics",
	Long: `Export one artifact family to Parquet format for analytics tools.

Kinds:
- history: one row per score snapshot
- graph: one row per attribution link
- residue: one row per cataloged instance

Parquet format enables fast querying with DuckDB, Apache Spark and
pandas, plus direct import into BI tools.

Requires: --output-file parameter

Examples:
  # Export the score history
  distill export --kind history --output-file history.parquet

  # Query attribution links with DuckDB
  distill export --kind graph --output-file links.parquet
  duckdb -c "SELECT source, COUNT(*) FROM read_parquet('links.parquet') GROUP BY 1"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		kind := schema.ExportKind(viper.GetString("kind"))
		if err := core.ExecuteExport(cfg, kind); err != nil {
			contract.LogFatal("Failed to export artifacts", err)
		}
	},
}
