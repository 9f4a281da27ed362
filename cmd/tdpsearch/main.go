// Package main provides the entry point for the tdpsearch CLI.
package main

import (
	"os"

	"github.com/emielsteerneman/tdpsearch/cmd/tdpsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
