package cmd

import (
	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/runstore"
)

// runCmd performs the full analysis pipeline.
var runCmd = &cobra.Command{
	Use:   "run [repo-path]",
	Short: "Run the full pipeline: score, attribute, classify residue and gate.",
	Long: `Run every analysis stage in order and persist all artifacts.

Stages:
- Score documentation coherence (signal, feedback, bounded, elastic)
- Fold repository activity into the attribution graph
- Scan documents and discussions for symbolic residue
- Build the period report against the prior snapshot
- Gate the overall score against the publication threshold

Each stage writes its artifact under the artifacts directory before the
next stage runs, so a later failure never loses earlier results.

Examples:
  # Analyze the current repository
  distill run

  # Analyze with platform activity included
  distill run --platform-repo owner/name

  # Score only the docs/ tree with a stricter gate
  distill run --docs docs --publication-threshold 0.9`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		revisions, platformClient := buildClients()
		if err := core.ExecuteRun(rootCtx, cfg, revisions, platformClient, runstore.Manager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
