// Package cli implements the deepsplit command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show deepsplit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("deepsplit version 0.1.0-dev")
		},
	}
}
