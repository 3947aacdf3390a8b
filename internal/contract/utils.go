package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Coherence label constants.
const (
	StrongValue   = "Strong"
	AdequateValue = "Adequate"
	MarginalValue = "Marginal"
	WeakValue     = "Weak"
)

// Fixed presentation bands for the score labels. The bands sit on the
// default threshold values but do not follow threshold overrides;
// gate verdicts against the configured thresholds come from the check
// output, not the labels.
const (
	strongBand   = 0.8
	adequateBand = 0.7
	marginalBand = 0.6
)

// Color variables for console output.
var (
	StrongColor   = color.New(color.FgGreen, color.Bold) // strongColor marks publication-ready scores.
	AdequateColor = color.New(color.FgCyan)              // adequateColor marks sound but improvable scores.
	MarginalColor = color.New(color.FgYellow)            // marginalColor marks scores that draw recommendations.
	WeakColor     = color.New(color.FgRed, color.Bold)   // weakColor marks scores below the minimum gate.

	PassColor = color.New(color.FgGreen, color.Bold)
	FailColor = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label indicating the coherence
// level for a score on the [0, 1] scale. This is the core logic used
// for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= strongBand:
		return StrongValue
	case score >= adequateBand:
		return AdequateValue
	case score >= marginalBand:
		return MarginalValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case AdequateValue:
		return AdequateColor.Sprint(text)
	case MarginalValue:
		return MarginalColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "drafts/", "node_modules/", "*.draft.md".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		// If the pattern contains glob characters, try filepath.Match.
		if strings.ContainsAny(ex, "*?[") || strings.Contains(ex, "**") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.draft.md)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		// Handle prefix, suffix, or substring matches
		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetLedgerDBFilePath returns the path to the SQLite DB file for the run ledger.
func GetLedgerDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".distill_ledger.db"
	}
	return filepath.Join(homeDir, ".distill_ledger.db")
}

// GetFetchDBFilePath returns the path to the SQLite DB file for the fetch cache.
func GetFetchDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".distill_fetch.db"
	}
	return filepath.Join(homeDir, ".distill_fetch.db")
}

// NormalizeDocPath normalizes a user-provided document path relative to the docs root
// and ensures it's within the docs tree boundaries.
func NormalizeDocPath(docsRoot, userPath string) (string, error) {
	// Handle absolute paths by making them relative to the docs root
	if filepath.IsAbs(userPath) {
		relPath, err := filepath.Rel(docsRoot, userPath)
		if err != nil {
			return "", fmt.Errorf("path is outside docs root: %s", userPath)
		}
		userPath = relPath
	}

	// Clean the path to resolve any .. or . components
	cleanPath := filepath.Clean(userPath)

	// Ensure the path doesn't go outside the docs root (no leading .. after cleaning)
	if strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path is outside docs root: %s", userPath)
	}

	// Convert to forward slashes for consistency with repository paths
	normalized := strings.ReplaceAll(cleanPath, string(filepath.Separator), "/")

	// Remove leading ./ if present
	normalized = strings.TrimPrefix(normalized, "./")

	return normalized, nil
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
// Without this check, small maxWidth values could cause slice bounds errors in the truncation calculation.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
