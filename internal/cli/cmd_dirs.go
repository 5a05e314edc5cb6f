// Package cli implements the deepsplit command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/deepsplit/internal/session"
)

// newDirsCmd creates the dirs command
func newDirsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dirs [planning-dir]",
		Short: "Create split directories from the manifest",
		Long: `Create one directory per split declared in the manifest's
SPLIT_MANIFEST block. Directories that already exist are left
untouched, so the command is safe to re-run.

Examples:
  deepsplit dirs
  deepsplit dirs ./planning`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			res := session.CreateSplitDirs(abs)

			if jsonOut || !isatty.IsTerminal(os.Stdout.Fd()) {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else if res.Success {
				fmt.Println(res.Message)
				for _, name := range res.Created {
					fmt.Printf("  created %s\n", name)
				}
				for _, name := range res.Skipped {
					fmt.Printf("  skipped %s (exists)\n", name)
				}
			} else {
				fmt.Fprintln(os.Stderr, res.Error)
				for _, e := range res.Errors {
					fmt.Fprintf(os.Stderr, "  - %s\n", e)
				}
			}

			if !res.Success {
				return fmt.Errorf("dirs failed: %s", res.Code)
			}
			return nil
		},
	}
}
