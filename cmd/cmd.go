// Package cmd defines the command-line interface for distill.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(residueCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the residue subcommands to the parent residue command
	residueCmd.AddCommand(residueResolveCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("docs", "", "Documentation directory relative to the repository root (default: whole repository)")
	rootCmd.PersistentFlags().String("artifacts", "", "Artifacts directory relative to the repository root (default: .distill)")
	rootCmd.PersistentFlags().String("platform-url", contract.DefaultPlatformURL, "Collaboration platform API base URL")
	rootCmd.PersistentFlags().String("platform-repo", "", "Platform repository as owner/name (empty disables platform retrieval)")
	rootCmd.PersistentFlags().String("token-env", contract.DefaultTokenEnv, "Environment variable holding the platform access token")
	rootCmd.PersistentFlags().String("window", "", "Reporting window, e.g. '7d' or '2 weeks'")
	rootCmd.PersistentFlags().Float64("publication-threshold", schema.DefaultPublicationThreshold, "Overall score required to pass the publication gate")
	rootCmd.PersistentFlags().Float64("min-threshold", schema.DefaultMinimumThreshold, "Per-run minimum overall score (looser than the publication gate)")
	rootCmd.PersistentFlags().Int("history-cap", schema.DefaultHistoryCap, "Maximum history snapshots kept before archiving")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Fetch cache entry lifetime, e.g. '30m' or '1h'")
	rootCmd.PersistentFlags().Bool("refresh", false, "Bypass the fetch cache and refetch platform data")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("kind", string(schema.HistoryExport), "Artifact family to export: history or graph or residue")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
