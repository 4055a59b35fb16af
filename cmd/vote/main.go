// Command vote is the CLI front-end for the tree-ensemble verification
// core (spec.md §6, "external interfaces... standard plumbing"). It
// owns everything the core itself refuses to: argument parsing, model
// and dataset loading, configuration, and printing results.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
