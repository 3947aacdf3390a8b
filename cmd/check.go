package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
)

// checkCmd focused on CI/CD publication gating.
var checkCmd = &cobra.Command{
	Use:   "check [repo-path]",
	Short: "Gate publication on the stored coherence report (fails build below threshold)",
	Long: `Evaluate the latest stored coherence report against the publication threshold.

Designed for CI/CD integration - exits non-zero when the overall score
sits below the threshold. Component scores below the threshold are
listed as advisory violations but never fail the gate on their own.

Requires a stored coherence report; run 'distill run' or
'distill score' first.

Examples:
  # Gate on the default threshold
  distill check

  # Stricter release gate
  distill check --publication-threshold 0.9

  # Machine-readable verdict
  distill check --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		result, err := core.ExecuteCheck(cfg)
		if err != nil {
			contract.LogFatal("Publication check failed", err)
		}
		if !result.Passed {
			os.Exit(1)
		}
	},
}
