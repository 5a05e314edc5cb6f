// Package cli implements the deepsplit command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/deepsplit/internal/naming"
)

// nameReport is the JSON shape of the name command.
type nameReport struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// newNameCmd creates the name command
func newNameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "name <free-text>",
		Short: "Build a split directory name",
		Long: `Build a validated NN-kebab-case split directory name from free text.

Without --index the next available index in the planning directory is
used. The result never collides with an existing directory: a numeric
suffix is appended when needed.

Examples:
  deepsplit name "Backend API"
  deepsplit name --dir ./planning --index 3 "Shared Infra"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			index, _ := cmd.Flags().GetInt("index")

			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if index == 0 {
				index, err = naming.NextIndex(abs)
				if err != nil {
					return err
				}
			}

			name, err := naming.UniqueName(abs, index, args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(nameReport{Name: name, Index: index})
			}
			fmt.Println(name)
			return nil
		},
	}

	cmd.Flags().String("dir", ".", "planning directory")
	cmd.Flags().Int("index", 0, "split index (default: next available)")

	return cmd
}
