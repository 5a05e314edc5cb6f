// Package main provides the entry point for the deepsplit CLI.
package main

import (
	"os"

	"github.com/randalmurphal/deepsplit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
