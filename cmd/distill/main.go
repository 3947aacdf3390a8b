// main is the entry point for the distill CLI.
package main

import (
	"fmt"
	"os"

	"github.com/davidkimai/recursive-distill/cmd"
	"github.com/davidkimai/recursive-distill/internal/runstore"
)

func main() {
	err := cmd.Execute()
	runstore.CloseStores()
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
