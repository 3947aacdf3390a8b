package cmd

import (
	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
)

// trendsCmd builds the period report.
var trendsCmd = &cobra.Command{
	Use:   "trends [repo-path]",
	Short: "Report score trends over the reporting window.",
	Long: `Build the period report for the window ending now.

Compares the current scores against the latest snapshot preceding the
window, summarizes attribution and residue movement, and counts
commits, issues, pull requests and forks in the period.

Requires a stored coherence report; run 'distill run' or
'distill score' first.

Examples:
  # Default 7-day window
  distill trends

  # Monthly reporting
  distill trends --window "30d"

  # Feed a dashboard
  distill trends --output json --output-file period.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		revisions, platformClient := buildClients()
		if err := core.ExecuteTrends(rootCtx, cfg, revisions, platformClient); err != nil {
			contract.LogFatal("Cannot build period report", err)
		}
	},
}
