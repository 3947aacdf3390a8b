package cmd

import (
	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
)

// scoreCmd recomputes the coherence report only.
var scoreCmd = &cobra.Command{
	Use:   "score [repo-path]",
	Short: "Score documentation coherence and print the report.",
	Long: `Compute the four coherence sub-scores and their weighted overall score.

Sub-scores:
- signal: how much meaning survives between revisions
- feedback: how reliably discussion feedback lands in the documents
- bounded: whether recursive structure stays within declared depth
- elastic: how much churn the documentation absorbs without breaking

The report replaces the stored snapshot and appends to the score history,
but leaves the attribution graph and residue catalog untouched.

Examples:
  # Score the current repository
  distill score

  # Machine-readable output for CI logs
  distill score --output json

  # Export the score table
  distill score --output csv --output-file coherence.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		revisions, platformClient := buildClients()
		if err := core.ExecuteScore(rootCtx, cfg, revisions, platformClient); err != nil {
			contract.LogFatal("Cannot score repository", err)
		}
	},
}
