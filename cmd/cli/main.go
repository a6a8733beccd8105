// Package main is the entry point for craft-cost CLI.
package main

import (
	"os"

	"craft-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
