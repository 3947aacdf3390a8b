package cmd

import (
	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
)

// graphCmd folds activity into the attribution graph.
var graphCmd = &cobra.Command{
	Use:   "graph [repo-path]",
	Short: "Fold repository activity into the attribution graph.",
	Long: `Update the attribution graph from commits, issues, reviews and comments.

The graph links contributors to the content they touched. Folding is
idempotent per event: re-running over the same history never double
counts a contribution.

Shows top contributors by activity, link counts by event kind and the
overall graph density.

Examples:
  # Fold current activity and show graph stats
  distill graph

  # Include platform events
  distill graph --platform-repo owner/name

  # Export the link list
  distill graph --output csv --output-file links.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		revisions, platformClient := buildClients()
		if err := core.ExecuteGraph(rootCtx, cfg, revisions, platformClient); err != nil {
			contract.LogFatal("Cannot fold attribution graph", err)
		}
	},
}
