package cmd

import (
	"github.com/spf13/cobra"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
)

// residueCmd scans for symbolic residue.
var residueCmd = &cobra.Command{
	Use:   "residue [repo-path]",
	Short: "Scan for symbolic residue and print the catalog.",
	Long: `Detect unresolved tension in documents and discussions and catalog it.

Residue classes:
- linguistic_uncertainty: hedged or tentative claims
- unsupported_assertion: claims without citation or evidence
- articulation_gap: admitted limits of what the text can express
- scope_boundary: questions pushed outside the declared scope
- acknowledged_contradiction: statements in admitted conflict

Instances deduplicate by content, so repeated scans only add genuinely
new findings. Resolving an instance is a reviewer action; see
'distill residue resolve'.

Examples:
  # Scan and show the catalog
  distill residue

  # Export the full catalog
  distill residue --output csv --output-file residue.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		revisions, platformClient := buildClients()
		if err := core.ExecuteResidue(rootCtx, cfg, revisions, platformClient); err != nil {
			contract.LogFatal("Cannot scan for residue", err)
		}
	},
}

// residueResolveCmd marks one instance resolved.
var residueResolveCmd = &cobra.Command{
	Use:   "resolve <instance-id>",
	Short: "Mark a cataloged residue instance as resolved.",
	Long: `Mark one residue instance resolved by its ID.

Scans never change an instance status; resolution is an explicit
reviewer decision. The full ID is shown by 'distill residue --output
json'; the table view shows the short prefix.

Examples:
  # Resolve by full ID
  distill residue resolve 0f8fad5b-d9cb-469f-a165-70867728950e`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional arg is an instance ID, not a repo path.
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteResidueResolve(cfg, args[0]); err != nil {
			contract.LogFatal("Cannot resolve residue instance", err)
		}
	},
}
