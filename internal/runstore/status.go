package runstore

import (
	"fmt"

	"github.com/davidkimai/recursive-distill/schema"
)

// PrintCacheStatus prints fetch cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Fetch Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
}

// PrintLedgerStatus prints run ledger status information.
func PrintLedgerStatus(status schema.LedgerStatus) {
	fmt.Printf("Run Ledger Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %s\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Completed Runs: %d\n", status.CompletedRuns)
		fmt.Printf("Failed Runs: %d\n", status.FailedRuns)
	}
}
