// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/davidkimai/recursive-distill/internal/contract"
)

// getMaxTableTextWidth calculates the maximum width for free-text table
// columns (sections, descriptions) based on terminal width.
func getMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns with borders and padding
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable text width
		return 15
	}
	if available > 70 {
		// Maximum text width to prevent overly long rows
		return 70
	}
	return available
}

// truncateText shortens free text to fit a table cell, marking the cut
// with an ellipsis.
func truncateText(text string, maxWidth int) string {
	if maxWidth <= 3 || len(text) <= maxWidth {
		return text
	}
	return text[:maxWidth-3] + "..."
}
